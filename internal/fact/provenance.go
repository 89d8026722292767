package fact

import "sort"

// ProvenanceSet is the set of every derivation ever found for a fact key. It
// forms a join semilattice: bottom is the empty set and join is set union, so
// merging the same derivation twice, or merging in any order, always yields
// the same result. The store relies on this to stay deterministic under
// parallel rule evaluation.
type ProvenanceSet struct {
	members map[string]Derivation
}

// NewProvenanceSet returns the bottom element (no derivations).
func NewProvenanceSet() *ProvenanceSet {
	return &ProvenanceSet{members: make(map[string]Derivation)}
}

// Add unions a single derivation into the set. It reports whether the set
// changed, which is what fixpoint detection hangs off.
func (s *ProvenanceSet) Add(d Derivation) bool {
	sig := d.signature()
	if _, ok := s.members[sig]; ok {
		return false
	}
	s.members[sig] = d
	return true
}

// Join unions another set into this one and reports whether anything changed.
func (s *ProvenanceSet) Join(other *ProvenanceSet) bool {
	changed := false
	for sig, d := range other.members {
		if _, ok := s.members[sig]; !ok {
			s.members[sig] = d
			changed = true
		}
	}
	return changed
}

// Empty reports whether the set is bottom. A fact is "known" exactly when its
// provenance set is non-empty.
func (s *ProvenanceSet) Empty() bool {
	return s == nil || len(s.members) == 0
}

// Len returns the number of distinct derivations.
func (s *ProvenanceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Derivations returns the members in a deterministic order: axioms first,
// then rule derivations sorted by signature. The proof extractor depends on
// this ordering to prefer the shortest justification.
func (s *ProvenanceSet) Derivations() []Derivation {
	if s == nil {
		return nil
	}
	out := make([]Derivation, 0, len(s.members))
	for _, d := range s.members {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsAxiom() != out[j].IsAxiom() {
			return out[i].IsAxiom()
		}
		return out[i].signature() < out[j].signature()
	})
	return out
}
