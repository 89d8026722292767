package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoprove/internal/geom"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Predicate{Name: "edge", Arity: 2}))

	t.Run("duplicate rejected", func(t *testing.T) {
		require.Error(t, r.Register(Predicate{Name: "edge", Arity: 2}))
	})
	t.Run("invalid arity rejected", func(t *testing.T) {
		require.Error(t, r.Register(Predicate{Name: "bad", Arity: 0}))
	})
	t.Run("lookup", func(t *testing.T) {
		p, ok := r.Lookup("edge")
		require.True(t, ok)
		assert.Equal(t, 2, p.Arity)
		_, ok = r.Lookup("missing")
		assert.False(t, ok)
	})
}

func TestAddRuleValidation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Predicate{Name: "edge", Arity: 2}))

	t.Run("valid rule", func(t *testing.T) {
		err := r.AddRule(Rule{
			Name:        "sym",
			Premises:    []Premise{prem("edge", "A", "B")},
			Conclusions: []Atom{atom("edge", "B", "A")},
		})
		require.NoError(t, err)
		assert.Len(t, r.Rules(), 1)
	})

	t.Run("no premises", func(t *testing.T) {
		err := r.AddRule(Rule{Name: "bad", Conclusions: []Atom{atom("edge", "A", "B")}})
		require.Error(t, err)
	})

	t.Run("no conclusions", func(t *testing.T) {
		err := r.AddRule(Rule{Name: "bad", Premises: []Premise{prem("edge", "A", "B")}})
		require.Error(t, err)
	})

	t.Run("undefined premise predicate", func(t *testing.T) {
		err := r.AddRule(Rule{
			Name:        "bad",
			Premises:    []Premise{prem("arc", "A", "B")},
			Conclusions: []Atom{atom("edge", "A", "B")},
		})
		var upe *UndefinedPredicateError
		require.ErrorAs(t, err, &upe)
		assert.Equal(t, "arc", upe.Predicate)
	})

	t.Run("wrong premise arity", func(t *testing.T) {
		err := r.AddRule(Rule{
			Name:        "bad",
			Premises:    []Premise{prem("edge", "A", "B", "C")},
			Conclusions: []Atom{atom("edge", "A", "B")},
		})
		var upe *UndefinedPredicateError
		require.ErrorAs(t, err, &upe)
		assert.Equal(t, 3, upe.Arity)
	})

	t.Run("unbound conclusion variable", func(t *testing.T) {
		err := r.AddRule(Rule{
			Name:        "bad",
			Premises:    []Premise{prem("edge", "A", "_")},
			Conclusions: []Atom{atom("edge", "A", "Z")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unbound")
	})

	t.Run("wildcard does not bind", func(t *testing.T) {
		err := r.AddRule(Rule{
			Name:        "bad",
			Premises:    []Premise{prem("edge", "A", "_")},
			Conclusions: []Atom{atom("edge", "A", "_")},
		})
		require.Error(t, err)
	})
}

func TestValidateApplication(t *testing.T) {
	r := Geometry()
	assert.NoError(t, r.ValidateApplication("cong", []string{"A", "B", "C", "D"}, "axiom"))
	assert.Error(t, r.ValidateApplication("cong", []string{"A", "B", "C"}, "axiom"))
	assert.Error(t, r.ValidateApplication("nosuch", []string{"A"}, "axiom"))
}

// sampleArgs returns pairwise-distinct argument tuples per arity so
// canonicalizer tests exercise real reordering.
func sampleArgs(arity int) []string {
	letters := []string{"C", "A", "B", "F", "D", "E", "H", "G"}
	return letters[:arity]
}

func TestCanonicalizerVariantAgreement(t *testing.T) {
	r := Geometry()
	for _, name := range []string{
		"col", "para", "perp", "cong", "midp", "cyclic",
		"eqangle", "eqratio", "sameclock",
		"simtri1", "simtri2", "contri1", "contri2", "inter",
	} {
		t.Run(name, func(t *testing.T) {
			p, ok := r.Lookup(name)
			require.True(t, ok)
			require.NotNil(t, p.Canon)
			require.NotNil(t, p.Variants)

			canonical := p.Canon(sampleArgs(p.Arity))

			// Canonicalization is idempotent.
			assert.Equal(t, canonical, p.Canon(canonical))

			// Every expanded variant collapses back to the representative.
			variants := p.Variants(canonical)
			require.NotEmpty(t, variants)
			seenSelf := false
			for _, v := range variants {
				assert.Equal(t, canonical, p.Canon(v), "variant %v", v)
				if fmt.Sprint(v) == fmt.Sprint(canonical) {
					seenSelf = true
				}
			}
			assert.True(t, seenSelf, "canonical form missing from its own variants")
		})
	}
}

func TestCanonSegmentPair(t *testing.T) {
	got := canonSegmentPair([]string{"C", "A", "F", "D"})
	assert.Equal(t, []string{"A", "C", "D", "F"}, got)

	// Side order flips when the right segment sorts smaller.
	got = canonSegmentPair([]string{"F", "D", "C", "A"})
	assert.Equal(t, []string{"A", "C", "D", "F"}, got)
}

func TestCanonTrianglePair(t *testing.T) {
	// Rotating both triangles in step names the same correspondence.
	got := canonTrianglePair([]string{"B", "C", "A", "E", "F", "D"})
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got)

	// Swapping triangle sides is a different correspondence and stays put.
	got = canonTrianglePair([]string{"A", "B", "C", "D", "E", "F"})
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got)
}

func TestVariantsOfDefaults(t *testing.T) {
	r := Geometry()
	// aconst has no variants function; the tuple stands alone.
	vs := r.VariantsOf("aconst", []string{"A", "B", "C", "D", "x"})
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"A", "B", "C", "D", "x"}, vs[0])
}

func TestCanonicalArgs(t *testing.T) {
	r := Geometry()
	assert.Equal(t, []string{"A", "C", "D", "F"}, r.CanonicalArgs("cong", []string{"C", "A", "F", "D"}))
	assert.Equal(t, []string{"B", "A"}, r.CanonicalArgs("nosuch", []string{"B", "A"}))
}

func testTable(t *testing.T, pts ...geom.Point) *geom.Table {
	t.Helper()
	tbl := geom.NewTable()
	for _, p := range pts {
		require.NoError(t, tbl.Add(p))
	}
	return tbl
}

func TestCheckApplication(t *testing.T) {
	r := Geometry()
	tbl := testTable(t,
		geom.Point{Name: "A", X: 0, Y: 0},
		geom.Point{Name: "B", X: 4, Y: 0},
		geom.Point{Name: "C", X: 2, Y: 0},
		geom.Point{Name: "D", X: 0, Y: 3},
		geom.Point{Name: "E", X: 4, Y: 3},
	)

	t.Run("true facts pass", func(t *testing.T) {
		assert.True(t, r.CheckApplication("col", []string{"A", "C", "B"}, tbl))
		assert.True(t, r.CheckApplication("midp", []string{"C", "A", "B"}, tbl))
		assert.True(t, r.CheckApplication("cong", []string{"A", "D", "B", "E"}, tbl))
		assert.True(t, r.CheckApplication("para", []string{"A", "B", "D", "E"}, tbl))
		assert.True(t, r.CheckApplication("perp", []string{"A", "B", "A", "D"}, tbl))
	})

	t.Run("false facts fail", func(t *testing.T) {
		assert.False(t, r.CheckApplication("col", []string{"A", "B", "D"}, tbl))
		assert.False(t, r.CheckApplication("midp", []string{"A", "C", "B"}, tbl))
		assert.False(t, r.CheckApplication("cong", []string{"A", "B", "A", "D"}, tbl))
		assert.False(t, r.CheckApplication("perp", []string{"A", "B", "D", "E"}, tbl))
	})

	t.Run("unknown points pass trivially", func(t *testing.T) {
		assert.True(t, r.CheckApplication("col", []string{"A", "B", "Z"}, tbl))
	})

	t.Run("predicates without a check pass", func(t *testing.T) {
		assert.True(t, r.CheckApplication("aconst", []string{"A", "B", "C", "D", "x"}, tbl))
	})
}

func TestCheckCyclic(t *testing.T) {
	r := Geometry()
	onCircle := testTable(t,
		geom.Point{Name: "P", X: 1, Y: 0},
		geom.Point{Name: "Q", X: 0, Y: 1},
		geom.Point{Name: "R", X: -1, Y: 0},
		geom.Point{Name: "S", X: 0, Y: -1},
		geom.Point{Name: "T", X: 2, Y: 2},
	)
	assert.True(t, r.CheckApplication("cyclic", []string{"P", "Q", "R", "S"}, onCircle))
	assert.False(t, r.CheckApplication("cyclic", []string{"P", "Q", "R", "T"}, onCircle))
}

func TestCheckEqangle(t *testing.T) {
	r := Geometry()
	tbl := testTable(t,
		geom.Point{Name: "A", X: 0, Y: 0},
		geom.Point{Name: "B", X: 4, Y: 0},
		geom.Point{Name: "C", X: 1, Y: 3},
		geom.Point{Name: "D", X: 6, Y: 0},
		geom.Point{Name: "E", X: 10, Y: 0},
		geom.Point{Name: "F", X: 7, Y: 3},
	)
	// Translated triangle: angle (CA, AB) equals angle (FD, DE).
	assert.True(t, r.CheckApplication("eqangle", []string{"C", "A", "B", "F", "D", "E"}, tbl))
	assert.False(t, r.CheckApplication("eqangle", []string{"C", "A", "B", "F", "E", "D"}, tbl))
}

func TestGuards(t *testing.T) {
	tbl := testTable(t,
		geom.Point{Name: "A", X: 0, Y: 0},
		geom.Point{Name: "B", X: 4, Y: 0},
		geom.Point{Name: "C", X: 1, Y: 3},
		geom.Point{Name: "D", X: 6, Y: 0},
		geom.Point{Name: "E", X: 10, Y: 0},
		geom.Point{Name: "F", X: 7, Y: 3},
		geom.Point{Name: "G", X: 0, Y: -5},
		geom.Point{Name: "H", X: 4, Y: -5},
		geom.Point{Name: "I", X: 1, Y: -8},
	)

	t.Run("distinctPoints", func(t *testing.T) {
		g := distinctPoints("X", "Y")
		assert.True(t, g(Binding{"X": "A", "Y": "B"}, tbl))
		assert.False(t, g(Binding{"X": "A", "Y": "A"}, tbl))
	})

	t.Run("distinctSegments", func(t *testing.T) {
		g := distinctSegments("P", "Q", "R", "S")
		assert.True(t, g(Binding{"P": "A", "Q": "B", "R": "C", "S": "D"}, tbl))
		assert.False(t, g(Binding{"P": "A", "Q": "B", "R": "B", "S": "A"}, tbl))
	})

	t.Run("orientation same", func(t *testing.T) {
		g := orientationGuard("A", "B", "C", "D", "E", "F", true)
		b := Binding{"A": "A", "B": "B", "C": "C", "D": "D", "E": "E", "F": "F"}
		assert.True(t, g(b, tbl))

		// Mirrored triangle winds the other way.
		b = Binding{"A": "A", "B": "B", "C": "C", "D": "G", "E": "H", "F": "I"}
		assert.False(t, g(b, tbl))
	})

	t.Run("orientation opposite", func(t *testing.T) {
		g := orientationGuard("A", "B", "C", "D", "E", "F", false)
		b := Binding{"A": "A", "B": "B", "C": "C", "D": "G", "E": "H", "F": "I"}
		assert.True(t, g(b, tbl))
	})

	t.Run("degenerate triangle rejected", func(t *testing.T) {
		g := orientationGuard("A", "B", "C", "D", "E", "F", true)
		b := Binding{"A": "A", "B": "B", "C": "B", "D": "D", "E": "E", "F": "F"}
		assert.False(t, g(b, tbl))
	})
}

func TestAtomInstantiate(t *testing.T) {
	a := atom("cong", "X", "Y", "Z", "W")
	got := a.Instantiate(Binding{"X": "A", "Y": "B", "Z": "C", "W": "D"})
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
}
