package reason

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"geoprove/internal/geom"
	"geoprove/internal/problem"
	"geoprove/internal/solver"
)

const proposerPrompt = `You are assisting a deductive geometry prover that has
stalled. Below is the problem statement, the points with coordinates, and the
goals it could not reach. Propose auxiliary constructions: new points (with
coordinates consistent with the figure) and axiom facts relating them to
existing points.

Respond ONLY with lines of the form:
  point <Name> <x> <y>
  axiom <predicate> <arg> <arg> ...

Problem: %s

Points:
%s

Unmet goals:
%s
`

// GeminiProposer asks a Gemini model for auxiliary constructions when the
// deductive engine stalls. The reply is parsed line by line; anything that
// does not fit the expected shape is rejected with an error so the caller
// treats the whole call as failed rather than seeding half a construction.
type GeminiProposer struct {
	client *genai.Client
	model  string
}

// NewGeminiProposer builds a proposer against the Gemini API.
func NewGeminiProposer(ctx context.Context, apiKey, model string) (*GeminiProposer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProposer{client: client, model: model}, nil
}

func (g *GeminiProposer) Name() string { return "llm" }

func (g *GeminiProposer) Propose(ctx context.Context, snap solver.Snapshot) (solver.Construction, error) {
	var pts strings.Builder
	for _, p := range snap.Points {
		fmt.Fprintf(&pts, "  %s (%g, %g)\n", p.Name, p.X, p.Y)
	}
	var goals strings.Builder
	for _, k := range snap.UnmetGoals {
		fmt.Fprintf(&goals, "  %s\n", k)
	}

	prompt := fmt.Sprintf(proposerPrompt, snap.Statement, pts.String(), goals.String())
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return solver.Construction{}, fmt.Errorf("gemini generate: %w", err)
	}
	return ParseConstruction(resp.Text())
}

// ParseConstruction parses the proposer reply format: "point NAME X Y" and
// "axiom PRED ARGS..." lines. Blank lines and markdown fences are skipped.
func ParseConstruction(text string) (solver.Construction, error) {
	var con solver.Construction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "point":
			if len(fields) != 4 {
				return solver.Construction{}, fmt.Errorf("malformed point line %q", line)
			}
			x, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return solver.Construction{}, fmt.Errorf("point %s: bad x %q", fields[1], fields[2])
			}
			y, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return solver.Construction{}, fmt.Errorf("point %s: bad y %q", fields[1], fields[3])
			}
			con.Points = append(con.Points, geom.Point{Name: fields[1], X: x, Y: y})
		case "axiom":
			if len(fields) < 3 {
				return solver.Construction{}, fmt.Errorf("malformed axiom line %q", line)
			}
			con.Axioms = append(con.Axioms, problem.Application{
				Predicate: strings.ToLower(fields[1]),
				Args:      fields[2:],
			})
		default:
			return solver.Construction{}, fmt.Errorf("unrecognized proposer line %q", line)
		}
	}
	if len(con.Points) == 0 && len(con.Axioms) == 0 {
		return solver.Construction{}, fmt.Errorf("proposer returned no construction")
	}
	return con, nil
}

var _ solver.ConstructionProposer = (*GeminiProposer)(nil)
