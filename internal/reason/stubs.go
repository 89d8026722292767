// Package reason implements the external reasoner contracts at their
// boundary: deterministic stubs for conformance testing, a coordinate
// verification proposer standing in for the algebraic engine, and an
// LLM-backed construction proposer.
package reason

import (
	"context"
	"time"

	"geoprove/internal/problem"
	"geoprove/internal/solver"
)

// StubAlgebraic returns a fixed fact list on every call. Used to exercise
// the controller's augmentation transitions deterministically.
type StubAlgebraic struct {
	Reasoner string
	Apps     []problem.Application
	Err      error
	Calls    int
}

func (s *StubAlgebraic) Name() string {
	if s.Reasoner == "" {
		return "stub_ar"
	}
	return s.Reasoner
}

func (s *StubAlgebraic) Propose(ctx context.Context, _ solver.Snapshot) ([]problem.Application, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Apps, nil
}

// StubProposer returns a fixed construction. An optional Delay simulates a
// slow external service so timeout handling can be tested.
type StubProposer struct {
	Reasoner string
	Result   solver.Construction
	Err      error
	Delay    time.Duration
	Calls    int
}

func (s *StubProposer) Name() string {
	if s.Reasoner == "" {
		return "stub_llm"
	}
	return s.Reasoner
}

func (s *StubProposer) Propose(ctx context.Context, _ solver.Snapshot) (solver.Construction, error) {
	s.Calls++
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return solver.Construction{}, ctx.Err()
		}
	}
	if s.Err != nil {
		return solver.Construction{}, s.Err
	}
	return s.Result, nil
}
