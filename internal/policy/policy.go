// Package policy exposes read-only, process-local access to a saved
// blueprint for querying action weights without spinning up a Driver or its
// training PRNG streams — the shape a served or inspected policy needs.
package policy

import (
	"errors"

	"github.com/lox/cfr-solver/internal/solver"
)

// Policy wraps a loaded blueprint for action-weight lookups.
type Policy struct {
	blueprint *solver.Blueprint
}

// Load reads a blueprint previously written by (*solver.Driver, via
// solver.NewBlueprint).Save.
func Load(path string) (*Policy, error) {
	bp, err := solver.LoadBlueprint(path)
	if err != nil {
		return nil, err
	}
	return &Policy{blueprint: bp}, nil
}

// Blueprint returns the underlying blueprint, for callers that need more
// than action weights (e.g. iterating every stored information set).
func (p *Policy) Blueprint() *solver.Blueprint {
	if p == nil {
		return nil
	}
	return p.blueprint
}

// ActionWeights returns the stored average-strategy distribution for
// (player, key). A missing key or a nil policy yields a uniform distribution
// over actionCount choices rather than an error: callers evaluating
// information sets the blueprint never visited during training should still
// get a well-formed strategy to sample from.
func (p *Policy) ActionWeights(player int, key string, actionCount int) ([]float64, error) {
	if actionCount <= 0 {
		return nil, errors.New("policy: action count must be positive")
	}
	if p == nil || p.blueprint == nil {
		return uniform(actionCount), nil
	}

	strat, ok := p.blueprint.Strategy(player, key)
	if !ok {
		return uniform(actionCount), nil
	}

	out := make([]float64, actionCount)
	copy(out, strat)
	if len(strat) >= actionCount {
		return out, nil
	}
	u := 1.0 / float64(actionCount)
	for i := len(strat); i < actionCount; i++ {
		out[i] = u
	}
	return out, nil
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	v := 1.0 / float64(n)
	for i := range out {
		out[i] = v
	}
	return out
}
