package solver

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"geoprove/internal/fact"
	"geoprove/internal/problem"
)

// augment asks the external reasoners for new material, merging whatever
// they return into the store. It reports whether anything new arrived. The
// reasoners are called strictly in sequence, each under its own deadline; a
// failure or timeout surfaces as *ReasonerError and ends the run.
func (s *Solver) augment(ctx context.Context, prob *problem.Problem, store *fact.Store, missing []fact.Key) (bool, error) {
	snap := Snapshot{
		Statement:  prob.Statement(),
		Facts:      store.Keys(),
		Points:     store.Points().Points(),
		UnmetGoals: missing,
	}
	grew := false

	if s.algebraic != nil {
		apps, err := s.callAlgebraic(ctx, snap)
		if err != nil {
			return grew, err
		}
		if s.seedProposed(store, apps, s.algebraic.Name()) {
			grew = true
		}
	}

	if s.proposer != nil {
		construction, err := s.callProposer(ctx, snap)
		if err != nil {
			return grew, err
		}
		for _, p := range construction.Points {
			if _, known := store.Points().Get(p.Name); known {
				continue
			}
			if err := store.AddPoint(p); err != nil {
				s.log.Warn("proposed point rejected", zap.String("point", p.Name), zap.Error(err))
				continue
			}
			grew = true
		}
		if s.seedProposed(store, construction.Axioms, s.proposer.Name()) {
			grew = true
		}
	}

	return grew, nil
}

func (s *Solver) callAlgebraic(ctx context.Context, snap Snapshot) ([]problem.Application, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	apps, err := s.algebraic.Propose(cctx, snap)
	if err != nil {
		return nil, s.wrapReasonerErr(s.algebraic.Name(), err)
	}
	return apps, nil
}

func (s *Solver) callProposer(ctx context.Context, snap Snapshot) (Construction, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	construction, err := s.proposer.Propose(cctx, snap)
	if err != nil {
		return Construction{}, s.wrapReasonerErr(s.proposer.Name(), err)
	}
	return construction, nil
}

func (s *Solver) wrapReasonerErr(name string, err error) error {
	return &ReasonerError{
		Reasoner: name,
		Timeout:  errors.Is(err, context.DeadlineExceeded),
		Err:      err,
	}
}

// seedProposed merges reasoner-supplied axioms, tagged with the reasoner's
// name as source. Malformed or numerically inconsistent proposals are
// dropped with a warning rather than failing the run; the reasoner is an
// untrusted collaborator.
func (s *Solver) seedProposed(store *fact.Store, apps []problem.Application, source string) bool {
	grew := false
	for _, app := range apps {
		if err := s.reg.ValidateApplication(app.Predicate, app.Args, source); err != nil {
			s.log.Warn("proposed axiom rejected", zap.String("axiom", app.String()), zap.Error(err))
			continue
		}
		if s.cfg.Solver.ValidateAxioms && !s.reg.CheckApplication(app.Predicate, app.Args, store.Points()) {
			s.log.Warn("proposed axiom contradicts coordinates", zap.String("axiom", app.String()))
			continue
		}
		if store.Seed(store.Canonical(app.Predicate, app.Args), source) {
			grew = true
		}
	}
	return grew
}
