package fact

import (
	"sort"

	"geoprove/internal/geom"
)

// Store is the canonical relation database for one solving run: a monotone
// mapping from canonical fact key to provenance set, plus the append-only
// point table. Entries are never deleted and provenance sets only grow.
//
// Every key-producing operation canonicalizes through the per-predicate
// canonicalizers supplied at construction, so callers cannot insert or look
// up a malformed key.
type Store struct {
	canon  map[string]Canonicalizer
	facts  map[Key]*ProvenanceSet
	points *geom.Table
}

// NewStore creates an empty store using the given canonicalizer map.
// Predicates without an entry canonicalize to themselves.
func NewStore(canon map[string]Canonicalizer) *Store {
	return &Store{
		canon:  canon,
		facts:  make(map[Key]*ProvenanceSet),
		points: geom.NewTable(),
	}
}

// Canonical builds the canonical key for a predicate application.
func (s *Store) Canonical(predicate string, args []string) Key {
	if c, ok := s.canon[predicate]; ok && c != nil {
		args = c(args)
	}
	return NewKey(predicate, args)
}

// canonicalize re-canonicalizes a key that may have been built elsewhere.
func (s *Store) canonicalize(k Key) Key {
	return s.Canonical(k.Predicate, k.Args())
}

// Seed records an axiom for a fact, tagged with its source. It reports
// whether the store changed.
func (s *Store) Seed(k Key, source string) bool {
	return s.Upsert(k, Axiom(source))
}

// Upsert merges a derivation into the fact's provenance set via lattice join
// and reports whether the set changed. The key and every cited premise are
// canonicalized on the way in.
func (s *Store) Upsert(k Key, d Derivation) bool {
	k = s.canonicalize(k)
	if len(d.Premises) > 0 {
		premises := make([]Key, len(d.Premises))
		for i, p := range d.Premises {
			premises[i] = s.canonicalize(p)
		}
		d.Premises = premises
	}
	set, ok := s.facts[k]
	if !ok {
		set = NewProvenanceSet()
		s.facts[k] = set
	}
	return set.Add(d)
}

// Known reports whether the fact has at least one derivation.
func (s *Store) Known(k Key) bool {
	set, ok := s.facts[s.canonicalize(k)]
	return ok && !set.Empty()
}

// ProvenanceOf returns the provenance set for a key, or an empty set if the
// fact is unknown.
func (s *Store) ProvenanceOf(k Key) *ProvenanceSet {
	if set, ok := s.facts[s.canonicalize(k)]; ok {
		return set
	}
	return NewProvenanceSet()
}

// Keys returns all known fact keys in deterministic order.
func (s *Store) Keys() []Key {
	out := make([]Key, 0, len(s.facts))
	for k := range s.facts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len returns the number of known facts.
func (s *Store) Len() int {
	return len(s.facts)
}

// AddPoint appends a point to the point table.
func (s *Store) AddPoint(p geom.Point) error {
	return s.points.Add(p)
}

// Points returns the point table.
func (s *Store) Points() *geom.Table {
	return s.points
}
