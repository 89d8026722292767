package reason

import (
	"context"
	"math"

	"geoprove/internal/fact"
	"geoprove/internal/geom"
	"geoprove/internal/problem"
	"geoprove/internal/rules"
	"geoprove/internal/solver"
)

// Coordinate is an algebraic reasoner that reads facts off the model: it
// scans segment pairs over the known points and proposes cong, para and perp
// facts that hold numerically but are not yet in the store. Proposals are
// axioms from the deductive engine's point of view; the coordinates are
// treated as an oracle.
type Coordinate struct {
	reg *rules.Registry
}

// NewCoordinate builds a coordinate reasoner over the given registry. The
// registry is needed to canonicalize candidates before membership tests.
func NewCoordinate(reg *rules.Registry) *Coordinate {
	return &Coordinate{reg: reg}
}

func (c *Coordinate) Name() string { return "ar" }

func (c *Coordinate) Propose(ctx context.Context, snap solver.Snapshot) ([]problem.Application, error) {
	known := make(map[fact.Key]struct{}, len(snap.Facts))
	for _, k := range snap.Facts {
		known[k] = struct{}{}
	}

	var segs [][2]geom.Point
	for i := range snap.Points {
		for j := i + 1; j < len(snap.Points); j++ {
			segs = append(segs, [2]geom.Point{snap.Points[i], snap.Points[j]})
		}
	}

	var apps []problem.Application
	add := func(pred string, args ...string) {
		canon := c.reg.CanonicalArgs(pred, args)
		key := fact.NewKey(pred, canon)
		if _, ok := known[key]; ok {
			return
		}
		known[key] = struct{}{}
		apps = append(apps, problem.Application{Predicate: pred, Args: args})
	}

	for i := range segs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(segs); j++ {
			a, b := segs[i][0], segs[i][1]
			p, q := segs[j][0], segs[j][1]
			if geom.CloseLengths(geom.Distance(a, b), geom.Distance(p, q)) {
				add("cong", a.Name, b.Name, p.Name, q.Name)
			}
			ab := geom.LineAngle(a, b)
			pq := geom.LineAngle(p, q)
			// Parallel segments sharing a point are collinear, which is
			// col's business, not para's.
			if !sharesPoint(a, b, p, q) && geom.CloseAngles(ab, pq) {
				add("para", a.Name, b.Name, p.Name, q.Name)
			}
			if geom.CloseAngles(ab+math.Pi/2, pq) {
				add("perp", a.Name, b.Name, p.Name, q.Name)
			}
		}
	}
	return apps, nil
}

func sharesPoint(a, b, p, q geom.Point) bool {
	return a.Name == p.Name || a.Name == q.Name || b.Name == p.Name || b.Name == q.Name
}

var _ solver.AlgebraicReasoner = (*Coordinate)(nil)
