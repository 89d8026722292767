package engine

import (
	"context"

	"geoprove/internal/fact"
	"geoprove/internal/rules"
)

// factSet is a membership class used by semi-naive matching.
type factSet map[fact.Key]struct{}

// snapshot is the immutable view of the store a pass matches against.
// Nothing mutates it; matching for distinct rules shares it freely.
type snapshot struct {
	byPred map[string][]fact.Key
	all    factSet
	old    factSet // known before the previous pass's additions
	delta  factSet // added by the previous pass; nil on the first pass
}

func (e *Engine) snapshot(store *fact.Store, delta map[fact.Key]struct{}) *snapshot {
	keys := store.Keys()
	snap := &snapshot{
		byPred: make(map[string][]fact.Key),
		all:    make(factSet, len(keys)),
	}
	for _, k := range keys {
		snap.byPred[k.Predicate] = append(snap.byPred[k.Predicate], k)
		snap.all[k] = struct{}{}
	}
	if delta != nil {
		snap.delta = delta
		snap.old = make(factSet, len(keys))
		for _, k := range keys {
			if _, ok := delta[k]; !ok {
				snap.old[k] = struct{}{}
			}
		}
	}
	return snap
}

// matchRule enumerates every binding of the rule's premises against the
// snapshot, evaluates the guard, and returns the proposed conclusions.
//
// After the first pass, matching is restricted semi-naive style: for each
// premise position, that premise is matched only against the previous pass's
// delta, earlier premises against the pre-delta store, and later premises
// against everything. The union over positions covers exactly the bindings
// that touch a new fact. Correctness does not depend on this; the join's
// idempotence makes duplicated proposals harmless.
func (e *Engine) matchRule(ctx context.Context, store *fact.Store, snap *snapshot, rule rules.Rule) []proposal {
	var out []proposal

	if snap.delta == nil {
		sources := make([]factSet, len(rule.Premises))
		for i := range sources {
			sources[i] = snap.all
		}
		e.matchFrom(ctx, store, snap, rule, 0, sources, rules.Binding{}, nil, &out)
		return out
	}

	for dp := range rule.Premises {
		sources := make([]factSet, len(rule.Premises))
		for i := range sources {
			switch {
			case i < dp:
				sources[i] = snap.old
			case i == dp:
				sources[i] = snap.delta
			default:
				sources[i] = snap.all
			}
		}
		e.matchFrom(ctx, store, snap, rule, 0, sources, rules.Binding{}, nil, &out)
	}
	return out
}

func (e *Engine) matchFrom(ctx context.Context, store *fact.Store, snap *snapshot, rule rules.Rule,
	idx int, sources []factSet, binding rules.Binding, matched []fact.Key, out *[]proposal) {

	if ctx.Err() != nil {
		return
	}

	if idx == len(rule.Premises) {
		if rule.Guard != nil && !rule.Guard(binding, store.Points()) {
			// Guard not satisfied (or not evaluable) for this binding only.
			return
		}
		premises := append([]fact.Key(nil), matched...)
		for _, concl := range rule.Conclusions {
			key := store.Canonical(concl.Predicate, concl.Instantiate(binding))
			if containsKey(premises, key) {
				// A fact citing itself is no justification.
				continue
			}
			*out = append(*out, proposal{key: key, d: fact.ByRule(rule.Name, premises...)})
		}
		return
	}

	premise := rule.Premises[idx]

	// Fully bound premise without wildcards: a direct membership probe.
	if grounded, args := premiseGrounded(premise, binding); grounded {
		key := store.Canonical(premise.Predicate, args)
		if _, ok := sources[idx][key]; !ok {
			return
		}
		e.matchFrom(ctx, store, snap, rule, idx+1, sources, binding, append(matched, key), out)
		return
	}

	for _, candidate := range snap.byPred[premise.Predicate] {
		if _, ok := sources[idx][candidate]; !ok {
			continue
		}
		for _, variant := range e.reg.VariantsOf(premise.Predicate, candidate.Args()) {
			next, ok := unify(premise.Vars, variant, binding)
			if !ok {
				continue
			}
			e.matchFrom(ctx, store, snap, rule, idx+1, sources, next, append(matched, candidate), out)
		}
	}
}

// premiseGrounded reports whether every placeholder is already bound, and if
// so returns the instantiated argument tuple.
func premiseGrounded(p rules.Premise, binding rules.Binding) (bool, []string) {
	args := make([]string, len(p.Vars))
	for i, v := range p.Vars {
		if v == rules.Wildcard {
			return false, nil
		}
		val, ok := binding[v]
		if !ok {
			return false, nil
		}
		args[i] = val
	}
	return true, args
}

// unify matches an argument tuple against premise placeholders under the
// current binding, returning the extended binding. Wildcards match anything
// without binding; repeated variables must agree.
func unify(vars []string, args []string, binding rules.Binding) (rules.Binding, bool) {
	if len(vars) != len(args) {
		return nil, false
	}
	next := binding
	copied := false
	for i, v := range vars {
		if v == rules.Wildcard {
			continue
		}
		if bound, ok := next[v]; ok {
			if bound != args[i] {
				return nil, false
			}
			continue
		}
		if !copied {
			clone := make(rules.Binding, len(next)+len(vars))
			for k, val := range next {
				clone[k] = val
			}
			next = clone
			copied = true
		}
		next[v] = args[i]
	}
	return next, true
}

func containsKey(keys []fact.Key, k fact.Key) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
