// Package solver drives a problem to a verdict: it seeds the fact store,
// runs the rule engine to fixpoint, checks goals, and when goals are unmet
// asks the external reasoners for new axioms or points before trying again.
// The outer loop is a small state machine with two terminal states, Solved
// and Exhausted.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"geoprove/internal/config"
	"geoprove/internal/engine"
	"geoprove/internal/fact"
	"geoprove/internal/geom"
	"geoprove/internal/problem"
	"geoprove/internal/proof"
	"geoprove/internal/rules"
)

// State names a node of the controller's state machine.
type State string

const (
	StateInitialized   State = "initialized"
	StateDeducing      State = "deducing"
	StateCheckingGoals State = "checking_goals"
	StateAugmenting    State = "augmenting"
	StateSolved        State = "solved"
	StateExhausted     State = "exhausted"
)

// Snapshot is the read-only view of the run handed to external reasoners.
type Snapshot struct {
	Statement  string
	Facts      []fact.Key
	Points     []geom.Point
	UnmetGoals []fact.Key
}

// AlgebraicReasoner proposes new axiom facts derived by algebraic means from
// what is already known. Implementations are external collaborators; only
// this contract matters here.
type AlgebraicReasoner interface {
	Name() string
	Propose(ctx context.Context, snap Snapshot) ([]problem.Application, error)
}

// Construction is what a construction proposer returns: auxiliary points and
// axiom facts about them.
type Construction struct {
	Points []geom.Point
	Axioms []problem.Application
}

// ConstructionProposer proposes auxiliary constructions when deduction
// stalls.
type ConstructionProposer interface {
	Name() string
	Propose(ctx context.Context, snap Snapshot) (Construction, error)
}

// ReasonerError wraps an external reasoner failure or timeout. Either ends
// the current run by transitioning to Exhausted; it is never retried within
// the run.
type ReasonerError struct {
	Reasoner string
	Timeout  bool
	Err      error
}

func (e *ReasonerError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("reasoner %s timed out: %v", e.Reasoner, e.Err)
	}
	return fmt.Sprintf("reasoner %s failed: %v", e.Reasoner, e.Err)
}

func (e *ReasonerError) Unwrap() error { return e.Err }

// GoalProof is the extraction outcome for one goal. Err is a *proof.CycleError
// when the goal is known but no acyclic derivation exists; other goals are
// unaffected.
type GoalProof struct {
	Goal  fact.Key
	Steps []proof.Step
	Err   error
}

// Result is the outcome of one solving run.
type Result struct {
	State      State
	Solved     bool
	Iterations int
	KnownFacts int
	Missing    []fact.Key
	Proofs     []GoalProof
	Store      *fact.Store
}

// Options configures a solver beyond the registry and config.
type Options struct {
	Logger    *zap.Logger
	Trace     io.Writer // human-readable progress; byte-stable given fixed rule order
	Algebraic AlgebraicReasoner
	Proposer  ConstructionProposer
}

// Solver runs problems against a fixed rule registry.
type Solver struct {
	reg       *rules.Registry
	cfg       *config.Config
	eng       *engine.Engine
	log       *zap.Logger
	trace     io.Writer
	algebraic AlgebraicReasoner
	proposer  ConstructionProposer
	timeout   time.Duration
}

// New creates a solver. The config must already be validated.
func New(reg *rules.Registry, cfg *config.Config, opts Options) *Solver {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	trace := opts.Trace
	if trace == nil {
		trace = io.Discard
	}
	timeout, err := cfg.ReasonerTimeout()
	if err != nil {
		timeout = 30 * time.Second
	}
	return &Solver{
		reg:       reg,
		cfg:       cfg,
		eng:       engine.New(reg, log.Named("engine"), cfg.Solver.Parallelism),
		log:       log,
		trace:     trace,
		algebraic: opts.Algebraic,
		proposer:  opts.Proposer,
		timeout:   timeout,
	}
}

// Solve runs the state machine for one problem.
func (s *Solver) Solve(ctx context.Context, prob *problem.Problem) (*Result, error) {
	store, goals, err := s.initialize(prob)
	if err != nil {
		return nil, err
	}
	res := &Result{State: StateInitialized, Store: store}

	fmt.Fprintf(s.trace, "Points: %d\n", store.Points().Len())
	fmt.Fprintf(s.trace, "Axioms: %d\n", len(prob.Axioms))
	fmt.Fprintf(s.trace, "Goals: %d\n", len(goals))

	for iteration := 1; iteration <= s.cfg.Solver.MaxIterations; iteration++ {
		res.Iterations = iteration
		s.transition(res, StateDeducing)

		missing := s.missingGoals(store, goals)
		fmt.Fprintf(s.trace, "=== Iteration %d ===\n", iteration)
		fmt.Fprintf(s.trace, "Facts known: %d / Goals known: %d / Goals: %d\n",
			store.Len(), len(goals)-len(missing), len(goals))
		s.traceMissing(missing)

		stats, err := s.eng.RunToFixpoint(ctx, store, goals)
		if err != nil {
			return res, err
		}
		for _, hit := range stats.NewGoals {
			fmt.Fprintf(s.trace, "Found %s via %s\n", hit.Key, hit.Rule)
		}
		fmt.Fprintf(s.trace, "Added %d new facts in %d passes\n",
			stats.FactsAfter-stats.FactsBefore, len(stats.Passes))

		s.transition(res, StateCheckingGoals)
		missing = s.missingGoals(store, goals)
		if len(missing) == 0 {
			return s.finishSolved(res, store, goals)
		}
		if iteration == s.cfg.Solver.MaxIterations {
			fmt.Fprintf(s.trace, "Stopped after %d iterations\n", iteration)
			return s.finishExhausted(res, store, missing), nil
		}

		s.transition(res, StateAugmenting)
		grew, rerr := s.augment(ctx, prob, store, missing)
		if rerr != nil {
			var re *ReasonerError
			if errors.As(rerr, &re) {
				s.log.Warn("augmentation ended the run",
					zap.String("reasoner", re.Reasoner),
					zap.Bool("timeout", re.Timeout),
					zap.Error(re.Err))
				fmt.Fprintf(s.trace, "Reasoner %s unavailable, stopping\n", re.Reasoner)
				return s.finishExhausted(res, store, missing), nil
			}
			return res, rerr
		}
		if !grew {
			fmt.Fprintf(s.trace, "No new facts or points proposed, stopping\n")
			return s.finishExhausted(res, store, missing), nil
		}
	}

	// Unreachable: the loop always returns from its last iteration.
	return s.finishExhausted(res, store, s.missingGoals(store, goals)), nil
}

// initialize builds the store from the problem: points first, then axioms,
// all validated against the registry. Validation failures are fatal before
// any engine run.
func (s *Solver) initialize(prob *problem.Problem) (*fact.Store, []fact.Key, error) {
	store := fact.NewStore(s.reg.Canonicalizers())
	for _, p := range prob.Points {
		if err := store.AddPoint(p); err != nil {
			return nil, nil, err
		}
	}
	for _, app := range prob.Axioms {
		if err := s.reg.ValidateApplication(app.Predicate, app.Args, "axioms"); err != nil {
			return nil, nil, err
		}
		if s.cfg.Solver.ValidateAxioms && !s.reg.CheckApplication(app.Predicate, app.Args, store.Points()) {
			return nil, nil, fmt.Errorf("axiom %s contradicts the point coordinates", app)
		}
		store.Seed(store.Canonical(app.Predicate, app.Args), fact.SourceProblem)
	}
	goals := make([]fact.Key, 0, len(prob.Goals))
	for _, app := range prob.Goals {
		if err := s.reg.ValidateApplication(app.Predicate, app.Args, "goals"); err != nil {
			return nil, nil, err
		}
		goals = append(goals, store.Canonical(app.Predicate, app.Args))
	}
	return store, goals, nil
}

func (s *Solver) transition(res *Result, next State) {
	s.log.Debug("state transition", zap.String("from", string(res.State)), zap.String("to", string(next)))
	res.State = next
}

func (s *Solver) missingGoals(store *fact.Store, goals []fact.Key) []fact.Key {
	var missing []fact.Key
	for _, g := range goals {
		if !store.Known(g) {
			missing = append(missing, g)
		}
	}
	return missing
}

func (s *Solver) traceMissing(missing []fact.Key) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprint(s.trace, "Missing goals:")
	for _, g := range missing {
		fmt.Fprintf(s.trace, " [%s]", g)
	}
	fmt.Fprintln(s.trace)
}

func (s *Solver) finishSolved(res *Result, store *fact.Store, goals []fact.Key) (*Result, error) {
	s.transition(res, StateSolved)
	res.Solved = true
	res.KnownFacts = store.Len()
	fmt.Fprintln(s.trace, "Solved!")
	for _, g := range goals {
		gp := GoalProof{Goal: g}
		steps, err := proof.Extract(store, g)
		if err != nil {
			// A cycle in one goal's provenance does not abort the others.
			gp.Err = err
			s.log.Warn("proof extraction failed", zap.Stringer("goal", g), zap.Error(err))
			fmt.Fprintf(s.trace, "Proof of %s: extraction failed: %v\n", g, err)
		} else {
			gp.Steps = steps
			fmt.Fprintf(s.trace, "Proof of %s:\n%s\n", g, proof.Render(steps))
		}
		res.Proofs = append(res.Proofs, gp)
	}
	return res, nil
}

func (s *Solver) finishExhausted(res *Result, store *fact.Store, missing []fact.Key) *Result {
	s.transition(res, StateExhausted)
	res.KnownFacts = store.Len()
	res.Missing = missing
	fmt.Fprintf(s.trace, "Facts known: %d\n", store.Len())
	s.traceMissing(missing)
	fmt.Fprintln(s.trace, "Could not solve the problem.")
	return res
}
