// Package fact implements the canonical relation database at the heart of the
// prover: fact keys normalized through pluggable per-predicate canonicalizers,
// derivations, provenance sets with join-semilattice merge semantics, and the
// monotone store that maps keys to provenance.
package fact

import "strings"

// Key identifies a grounded relation application: a predicate name plus an
// ordered tuple of point names. Keys are stored in canonical form so that
// argument permutations a predicate treats as equivalent collapse to a single
// entry. The args are joined with single spaces to keep the type comparable.
type Key struct {
	Predicate string
	args      string
}

// NewKey builds a key from raw arguments without canonicalizing. Callers
// outside this package normally go through Store.Canonical instead.
func NewKey(predicate string, args []string) Key {
	return Key{Predicate: predicate, args: strings.Join(args, " ")}
}

// Args returns the argument tuple.
func (k Key) Args() []string {
	if k.args == "" {
		return nil
	}
	return strings.Split(k.args, " ")
}

// Arity returns the number of arguments.
func (k Key) Arity() int {
	if k.args == "" {
		return 0
	}
	return strings.Count(k.args, " ") + 1
}

func (k Key) String() string {
	if k.args == "" {
		return k.Predicate
	}
	return k.Predicate + " " + k.args
}

// Less orders keys by predicate then arguments, for stable iteration.
func (k Key) Less(other Key) bool {
	if k.Predicate != other.Predicate {
		return k.Predicate < other.Predicate
	}
	return k.args < other.args
}

// Canonicalizer rewrites an argument tuple to the canonical representative of
// its equivalence class. It must be idempotent and must map every member of a
// class to the same representative, so insertion and lookup agree.
type Canonicalizer func(args []string) []string

// Identity is the canonicalizer for predicates where argument order is
// semantically significant in full.
func Identity(args []string) []string {
	return args
}
