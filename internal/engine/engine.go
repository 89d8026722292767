// Package engine implements the fixpoint evaluator: a generic interpreter
// over a registered rule table that saturates a fact store. Each pass matches
// every rule against an immutable snapshot of the store, buffers the proposed
// derivations, and merges them behind a single barrier, so matching work is
// freely parallelizable and the result is independent of scheduling.
package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"geoprove/internal/fact"
	"geoprove/internal/rules"
)

// Engine evaluates a rule table to fixpoint against a store.
type Engine struct {
	reg         *rules.Registry
	log         *zap.Logger
	parallelism int
}

// New creates an engine. Parallelism bounds the number of rules matched
// concurrently within one pass; values below 1 mean sequential.
func New(reg *rules.Registry, log *zap.Logger, parallelism int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Engine{reg: reg, log: log, parallelism: parallelism}
}

// GoalHit records a goal fact becoming known, and the rule that produced it.
type GoalHit struct {
	Key  fact.Key
	Rule string
}

// PassStats is the observable side effect of one pass: fact counts before
// and after, and any goal keys that newly became known.
type PassStats struct {
	Pass        int
	FactsBefore int
	FactsAfter  int
	NewGoals    []GoalHit
}

// RunStats aggregates a full run to fixpoint.
type RunStats struct {
	Passes      []PassStats
	FactsBefore int
	FactsAfter  int
	NewGoals    []GoalHit
}

// proposal is one (key, derivation) pair collected during matching.
type proposal struct {
	key fact.Key
	d   fact.Derivation
}

// RunToFixpoint repeatedly applies every rule to a snapshot of the store and
// merges the results, until a pass changes nothing. Goal keys are watched so
// the caller can report which goals each pass satisfied.
func (e *Engine) RunToFixpoint(ctx context.Context, store *fact.Store, goals []fact.Key) (*RunStats, error) {
	run := &RunStats{FactsBefore: store.Len()}

	// delta holds the keys whose provenance changed in the previous pass.
	// The first pass matches against everything.
	var delta map[fact.Key]struct{}

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		snap := e.snapshot(store, delta)
		before := store.Len()

		buffered := make([][]proposal, len(e.reg.Rules()))
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(e.parallelism)
		for i, rule := range e.reg.Rules() {
			i, rule := i, rule
			eg.Go(func() error {
				buffered[i] = e.matchRule(gctx, store, snap, rule)
				return gctx.Err()
			})
		}
		if err := eg.Wait(); err != nil {
			return run, err
		}

		// Single merge barrier: all proposals from this pass land at once,
		// in rule order. Join is idempotent, so duplicates are free.
		changed := make(map[fact.Key]struct{})
		stats := PassStats{Pass: pass, FactsBefore: before}
		for ri, props := range buffered {
			ruleName := e.reg.Rules()[ri].Name
			for _, p := range props {
				wasKnown := store.Known(p.key)
				if store.Upsert(p.key, p.d) {
					changed[p.key] = struct{}{}
				}
				if !wasKnown {
					for _, g := range goals {
						if g == p.key {
							stats.NewGoals = append(stats.NewGoals, GoalHit{Key: p.key, Rule: ruleName})
						}
					}
				}
			}
		}

		stats.FactsAfter = store.Len()
		run.Passes = append(run.Passes, stats)
		run.NewGoals = append(run.NewGoals, stats.NewGoals...)

		e.log.Debug("fixpoint pass complete",
			zap.Int("pass", pass),
			zap.Int("facts_before", stats.FactsBefore),
			zap.Int("facts_after", stats.FactsAfter),
			zap.Int("changed_keys", len(changed)))

		for _, hit := range stats.NewGoals {
			e.log.Info("goal became known",
				zap.Stringer("goal", hit.Key),
				zap.String("rule", hit.Rule))
		}

		if len(changed) == 0 {
			break
		}
		delta = changed
	}

	run.FactsAfter = store.Len()
	return run, nil
}
