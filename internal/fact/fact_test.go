package fact

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoprove/internal/geom"
)

func TestKey(t *testing.T) {
	k := NewKey("cong", []string{"A", "B", "C", "D"})
	assert.Equal(t, "cong", k.Predicate)
	assert.Equal(t, []string{"A", "B", "C", "D"}, k.Args())
	assert.Equal(t, 4, k.Arity())
	assert.Equal(t, "cong A B C D", k.String())

	// Keys are comparable values; same content means same key.
	assert.Equal(t, k, NewKey("cong", []string{"A", "B", "C", "D"}))
	assert.NotEqual(t, k, NewKey("cong", []string{"A", "B", "D", "C"}))
}

func TestKeyLess(t *testing.T) {
	keys := []Key{
		NewKey("perp", []string{"A", "B", "C", "D"}),
		NewKey("col", []string{"X", "Y", "Z"}),
		NewKey("col", []string{"A", "B", "C"}),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	assert.Equal(t, "col A B C", keys[0].String())
	assert.Equal(t, "col X Y Z", keys[1].String())
	assert.Equal(t, "perp A B C D", keys[2].String())
}

func TestDerivation(t *testing.T) {
	ax := Axiom(SourceProblem)
	assert.True(t, ax.IsAxiom())
	assert.Equal(t, "axiom(problem)", ax.String())

	p1 := NewKey("cong", []string{"A", "B", "D", "E"})
	d := ByRule("sss_cong", p1)
	assert.False(t, d.IsAxiom())
	assert.Equal(t, "sss_cong(cong A B D E)", d.String())
}

func TestProvenanceSetJoinSemilattice(t *testing.T) {
	p := NewKey("cong", []string{"A", "B", "C", "D"})
	q := NewKey("para", []string{"A", "B", "C", "D"})
	d1 := Axiom(SourceProblem)
	d2 := ByRule("r1", p)
	d3 := ByRule("r2", p, q)

	t.Run("idempotent", func(t *testing.T) {
		s := NewProvenanceSet()
		assert.True(t, s.Add(d1))
		assert.False(t, s.Add(d1))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("order independent", func(t *testing.T) {
		a := NewProvenanceSet()
		a.Add(d1)
		a.Add(d2)
		a.Add(d3)

		b := NewProvenanceSet()
		b.Add(d3)
		b.Add(d2)
		b.Add(d1)

		assert.Equal(t, a.Derivations(), b.Derivations())
	})

	t.Run("join is union", func(t *testing.T) {
		a := NewProvenanceSet()
		a.Add(d1)
		b := NewProvenanceSet()
		b.Add(d1)
		b.Add(d2)

		assert.True(t, a.Join(b))
		assert.Equal(t, 2, a.Len())
		// Joining again changes nothing.
		assert.False(t, a.Join(b))
	})

	t.Run("axioms sort first", func(t *testing.T) {
		s := NewProvenanceSet()
		s.Add(d3)
		s.Add(d1)
		s.Add(d2)
		ds := s.Derivations()
		require.Len(t, ds, 3)
		assert.True(t, ds[0].IsAxiom())
	})

	t.Run("empty", func(t *testing.T) {
		var nilSet *ProvenanceSet
		assert.True(t, nilSet.Empty())
		assert.Equal(t, 0, nilSet.Len())
		assert.True(t, NewProvenanceSet().Empty())
	})
}

// sortPair canonicalizes a two-argument predicate by sorting, standing in for
// the real geometry canonicalizers.
func sortPair(args []string) []string {
	out := append([]string(nil), args...)
	sort.Strings(out)
	return out
}

func TestStoreCanonicalization(t *testing.T) {
	s := NewStore(map[string]Canonicalizer{"edge": sortPair})

	k1 := s.Canonical("edge", []string{"B", "A"})
	k2 := s.Canonical("edge", []string{"A", "B"})
	assert.Equal(t, k1, k2)

	// Predicates without a canonicalizer keep their argument order.
	k3 := s.Canonical("arrow", []string{"B", "A"})
	assert.Equal(t, "arrow B A", k3.String())
}

func TestStoreUpsert(t *testing.T) {
	s := NewStore(map[string]Canonicalizer{"edge": sortPair})

	raw := NewKey("edge", []string{"B", "A"})
	assert.True(t, s.Seed(raw, SourceProblem))
	assert.True(t, s.Known(NewKey("edge", []string{"A", "B"})))
	assert.True(t, s.Known(raw))
	assert.Equal(t, 1, s.Len())

	t.Run("duplicate derivation is a no-op", func(t *testing.T) {
		assert.False(t, s.Seed(raw, SourceProblem))
	})

	t.Run("new derivation for known fact changes the store", func(t *testing.T) {
		premise := NewKey("edge", []string{"C", "B"})
		s.Seed(premise, SourceProblem)
		assert.True(t, s.Upsert(raw, ByRule("sym", premise)))
		assert.Equal(t, 2, s.ProvenanceOf(raw).Len())
	})

	t.Run("premises are canonicalized on the way in", func(t *testing.T) {
		target := NewKey("edge", []string{"D", "C"})
		assert.True(t, s.Upsert(target, ByRule("r", NewKey("edge", []string{"B", "A"}))))
		ds := s.ProvenanceOf(target).Derivations()
		require.Len(t, ds, 1)
		require.Len(t, ds[0].Premises, 1)
		assert.Equal(t, "edge A B", ds[0].Premises[0].String())
	})

	t.Run("unknown fact has empty provenance", func(t *testing.T) {
		assert.False(t, s.Known(NewKey("edge", []string{"X", "Y"})))
		assert.True(t, s.ProvenanceOf(NewKey("edge", []string{"X", "Y"})).Empty())
	})
}

func TestStoreKeysDeterministic(t *testing.T) {
	s := NewStore(nil)
	s.Seed(NewKey("b", []string{"1"}), SourceProblem)
	s.Seed(NewKey("a", []string{"2"}), SourceProblem)
	s.Seed(NewKey("a", []string{"1"}), SourceProblem)

	keys := s.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "a 1", keys[0].String())
	assert.Equal(t, "a 2", keys[1].String())
	assert.Equal(t, "b 1", keys[2].String())
}

func TestStorePoints(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.AddPoint(geom.Point{Name: "A", X: 1, Y: 2}))
	require.Error(t, s.AddPoint(geom.Point{Name: "A", X: 3, Y: 4}))
	assert.Equal(t, 1, s.Points().Len())
}
