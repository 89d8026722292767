// Package rules defines the rule table the engine interprets: predicate
// declarations with pluggable canonicalization, premise patterns with
// wildcard support, numeric guards over point coordinates, and conclusion
// templates. The engine is a generic interpreter over this table; new
// geometry rules are added by registering descriptors, never by touching the
// engine.
package rules

import (
	"fmt"

	"geoprove/internal/fact"
	"geoprove/internal/geom"
)

// Wildcard is the placeholder name that matches any argument without binding
// it. A premise using it requires a fact's existence while ignoring the
// matched point.
const Wildcard = "_"

// Premise is one pattern in a rule body: a predicate and a tuple of variable
// placeholders. Repeated variables must bind to the same point; Wildcard
// matches anything.
type Premise struct {
	Predicate string
	Vars      []string
}

// Atom is a conclusion template: a predicate applied to rule variables,
// instantiated under the binding that satisfied the premises.
type Atom struct {
	Predicate string
	Args      []string
}

// Binding maps rule variables to point names.
type Binding map[string]string

// Guard is a pure numeric predicate over the bound points' coordinates.
// Returning false rejects the binding; a guard that cannot be evaluated
// meaningfully (missing or degenerate points) also returns false, which the
// engine treats as "binding rejected", never as an error.
type Guard func(b Binding, pts *geom.Table) bool

// Rule is a static descriptor: premises, an optional guard, and conclusion
// templates. Rule names need not be unique; sas_cong registers one
// descriptor per orientation case under the same name.
type Rule struct {
	Name        string
	Premises    []Premise
	Guard       Guard
	Conclusions []Atom
}

// Predicate declares a relation: its arity, how argument tuples canonicalize,
// how a canonical tuple expands back into the argument orders a pattern may
// match (the inverse of canonicalization), and an optional numeric check used
// to validate axioms against the diagram.
type Predicate struct {
	Name     string
	Arity    int
	Canon    fact.Canonicalizer
	Variants func(args []string) [][]string
	Check    func(pts []geom.Point) bool
}

// UndefinedPredicateError reports a rule or application referencing a
// predicate or arity the registry does not declare. It is fatal at rule-set
// load or problem seeding.
type UndefinedPredicateError struct {
	Predicate string
	Arity     int
	Context   string
}

func (e *UndefinedPredicateError) Error() string {
	return fmt.Sprintf("undefined predicate %s/%d in %s", e.Predicate, e.Arity, e.Context)
}

// Registry holds the predicate declarations and the rule table for a run.
type Registry struct {
	preds map[string]Predicate
	rules []Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{preds: make(map[string]Predicate)}
}

// Register declares a predicate.
func (r *Registry) Register(p Predicate) error {
	if _, ok := r.preds[p.Name]; ok {
		return fmt.Errorf("predicate %s registered twice", p.Name)
	}
	if p.Arity <= 0 {
		return fmt.Errorf("predicate %s has invalid arity %d", p.Name, p.Arity)
	}
	r.preds[p.Name] = p
	return nil
}

// Lookup returns the declaration for a predicate name.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	p, ok := r.preds[name]
	return p, ok
}

// AddRule validates a rule against the declared predicates and appends it to
// the table. Rule order is irrelevant to correctness but fixed for log and
// trace readability.
func (r *Registry) AddRule(rule Rule) error {
	if len(rule.Premises) == 0 {
		return fmt.Errorf("rule %s has no premises", rule.Name)
	}
	for _, prem := range rule.Premises {
		if err := r.checkArity(prem.Predicate, len(prem.Vars), "rule "+rule.Name); err != nil {
			return err
		}
	}
	if len(rule.Conclusions) == 0 {
		return fmt.Errorf("rule %s has no conclusions", rule.Name)
	}
	bound := make(map[string]bool)
	for _, prem := range rule.Premises {
		for _, v := range prem.Vars {
			if v != Wildcard {
				bound[v] = true
			}
		}
	}
	for _, concl := range rule.Conclusions {
		if err := r.checkArity(concl.Predicate, len(concl.Args), "rule "+rule.Name); err != nil {
			return err
		}
		for _, v := range concl.Args {
			if !bound[v] {
				return fmt.Errorf("rule %s concludes with unbound variable %s", rule.Name, v)
			}
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

func (r *Registry) checkArity(name string, arity int, context string) error {
	p, ok := r.preds[name]
	if !ok || p.Arity != arity {
		return &UndefinedPredicateError{Predicate: name, Arity: arity, Context: context}
	}
	return nil
}

// ValidateApplication checks a grounded application (axiom or goal) against
// the declared predicates.
func (r *Registry) ValidateApplication(predicate string, args []string, context string) error {
	return r.checkArity(predicate, len(args), context)
}

// CheckApplication runs the predicate's numeric check against the named
// points' coordinates. Predicates without a check, and applications over
// points missing from the table, pass trivially.
func (r *Registry) CheckApplication(predicate string, args []string, pts *geom.Table) bool {
	p, ok := r.preds[predicate]
	if !ok || p.Check == nil {
		return true
	}
	resolved := make([]geom.Point, len(args))
	for i, name := range args {
		pt, ok := pts.Get(name)
		if !ok {
			return true
		}
		resolved[i] = pt
	}
	return p.Check(resolved)
}

// Rules returns the rule table in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Canonicalizers returns the per-predicate canonicalizer map the fact store
// is constructed with.
func (r *Registry) Canonicalizers() map[string]fact.Canonicalizer {
	out := make(map[string]fact.Canonicalizer, len(r.preds))
	for name, p := range r.preds {
		if p.Canon != nil {
			out[name] = p.Canon
		}
	}
	return out
}

// CanonicalArgs rewrites an argument tuple to its canonical representative.
func (r *Registry) CanonicalArgs(predicate string, args []string) []string {
	if p, ok := r.preds[predicate]; ok && p.Canon != nil {
		return p.Canon(args)
	}
	return args
}

// VariantsOf expands a canonical argument tuple into every argument order the
// predicate treats as equivalent. Matching enumerates these so a premise
// pattern can bind any member of the equivalence class, not just the stored
// representative.
func (r *Registry) VariantsOf(predicate string, args []string) [][]string {
	p, ok := r.preds[predicate]
	if !ok || p.Variants == nil {
		return [][]string{args}
	}
	return p.Variants(args)
}

// Instantiate substitutes a binding into a conclusion template.
func (a Atom) Instantiate(b Binding) []string {
	out := make([]string, len(a.Args))
	for i, v := range a.Args {
		out[i] = b[v]
	}
	return out
}
