// Package geom provides the point table and the coordinate arithmetic used by
// rule guards: distances, line angles, and orientation tests. All comparisons
// are approximate; geometry problems arrive with floating-point coordinates
// read off a diagram, so guards tolerate small numeric error rather than
// demanding exact equality.
package geom

import (
	"fmt"
	"math"
)

// Tolerances for numeric guards. Angle comparisons are looser than length
// comparisons because diagram coordinates are typically rounded to two
// decimal places.
const (
	AngleTol  = 1e-2
	LengthTol = 1e-6
)

// Point is a named point with fixed coordinates. Points are immutable once
// created; the solver only ever appends new ones between iterations.
type Point struct {
	Name string
	X    float64
	Y    float64
}

func (p Point) String() string {
	return p.Name
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// LineAngle returns the angle of the directed line from p to q, in radians.
func LineAngle(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// AngleBetween returns the counter-clockwise angle turned at q when walking
// p -> q -> r, normalized to [0, 2π).
func AngleBetween(p, q, r Point) float64 {
	a := LineAngle(q, r) - LineAngle(p, q)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Orientation returns the sign of twice the signed area of triangle abc:
// +1 for counter-clockwise, -1 for clockwise, 0 for (near-)collinear.
func Orientation(a, b, c Point) int {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	switch {
	case cross > LengthTol:
		return 1
	case cross < -LengthTol:
		return -1
	default:
		return 0
	}
}

// SameOrientation reports whether the triangles abc and def wind the same way.
// Degenerate (collinear) triangles have no winding, so the comparison fails
// for them.
func SameOrientation(a, b, c, d, e, f Point) (bool, bool) {
	o1 := Orientation(a, b, c)
	o2 := Orientation(d, e, f)
	if o1 == 0 || o2 == 0 {
		return false, false
	}
	return o1 == o2, true
}

// CloseAngles reports whether two angles are equal modulo π, i.e. whether they
// describe the same undirected line direction difference.
func CloseAngles(a, b float64) bool {
	d := math.Mod(a-b, math.Pi)
	if d < 0 {
		d += math.Pi
	}
	return d < AngleTol || math.Pi-d < AngleTol
}

// CloseLengths reports whether two lengths agree within relative tolerance.
func CloseLengths(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		scale = 1
	}
	return diff <= 1e-9*scale || diff <= LengthTol
}

// Table is the append-only point table for one solving run. Lookups are by
// name; insertion order is preserved so output stays reproducible.
type Table struct {
	byName map[string]Point
	order  []string
}

// NewTable returns an empty point table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Point)}
}

// Add appends a point. Re-adding an identical point is a no-op; re-adding a
// name with different coordinates is an error because points are immutable.
func (t *Table) Add(p Point) error {
	if p.Name == "" {
		return fmt.Errorf("point has no name")
	}
	if existing, ok := t.byName[p.Name]; ok {
		if existing == p {
			return nil
		}
		return fmt.Errorf("point %s already defined at (%g, %g)", p.Name, existing.X, existing.Y)
	}
	t.byName[p.Name] = p
	t.order = append(t.order, p.Name)
	return nil
}

// Get looks up a point by name.
func (t *Table) Get(name string) (Point, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Names returns point names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Points returns all points in insertion order.
func (t *Table) Points() []Point {
	out := make([]Point, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Len returns the number of points.
func (t *Table) Len() int {
	return len(t.order)
}
