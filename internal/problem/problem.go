// Package problem parses the line-oriented problem format: a points section
// with coordinates, then axioms and goals, one relation application per line.
//
//	points:
//	A 0.0 0.0
//	B 4.0 0.0
//	axioms:
//	cong A B C D
//	goals:
//	contri1 A B C D E F
//
// Blank lines and '#' comments are ignored. Parsing is purely syntactic;
// predicate and arity validation happens against the rule registry when the
// solver seeds the store.
package problem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"geoprove/internal/geom"
)

// Application is one grounded relation statement.
type Application struct {
	Predicate string
	Args      []string
}

func (a Application) String() string {
	return a.Predicate + " " + strings.Join(a.Args, " ")
}

// Problem is the parsed input: the initial point table, the axiom facts, and
// the goal facts.
type Problem struct {
	Points []geom.Point
	Axioms []Application
	Goals  []Application
}

// Statement renders the problem as a single line, the form handed to the
// construction proposer as context.
func (p *Problem) Statement() string {
	parts := make([]string, 0, len(p.Axioms)+len(p.Goals))
	for _, a := range p.Axioms {
		parts = append(parts, a.String())
	}
	for _, g := range p.Goals {
		parts = append(parts, "? "+g.String())
	}
	return strings.Join(parts, "; ")
}

// ParseError reports malformed problem input. It is fatal before any engine
// run.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("problem line %d: %s", e.Line, e.Msg)
}

// Parse reads a problem from r.
func Parse(r io.Reader) (*Problem, error) {
	var p Problem
	section := ""
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			name := strings.ToLower(strings.TrimSuffix(line, ":"))
			switch name {
			case "points", "axioms", "goals":
				if seen[name] {
					return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("duplicate section %q", name)}
				}
				seen[name] = true
				section = name
				continue
			default:
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown section %q", name)}
			}
		}

		fields := strings.Fields(line)
		switch section {
		case "points":
			if len(fields) != 3 {
				return nil, &ParseError{Line: lineNo, Msg: "point needs a name and two coordinates"}
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad x coordinate %q", fields[1])}
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad y coordinate %q", fields[2])}
			}
			p.Points = append(p.Points, geom.Point{Name: fields[0], X: x, Y: y})
		case "axioms":
			app, err := parseApplication(fields, lineNo)
			if err != nil {
				return nil, err
			}
			p.Axioms = append(p.Axioms, app)
		case "goals":
			app, err := parseApplication(fields, lineNo)
			if err != nil {
				return nil, err
			}
			p.Goals = append(p.Goals, app)
		default:
			return nil, &ParseError{Line: lineNo, Msg: "statement before any section header"}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Goals) == 0 {
		return nil, &ParseError{Line: lineNo, Msg: "no goals declared"}
	}
	return &p, nil
}

func parseApplication(fields []string, lineNo int) (Application, error) {
	if len(fields) < 2 {
		return Application{}, &ParseError{Line: lineNo, Msg: "relation application needs a predicate and arguments"}
	}
	return Application{Predicate: strings.ToLower(fields[0]), Args: fields[1:]}, nil
}
