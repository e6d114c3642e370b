// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// Phase is the election lifecycle state.
type Phase string

const (
	PhasePreElection      Phase = "pre-election"
	PhaseNomination       Phase = "nomination"
	PhaseCampaigning      Phase = "campaigning"
	PhaseVoting           Phase = "voting"
	PhaseCounting         Phase = "counting"
	PhaseResultsPublished Phase = "results-published"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

// phaseOrder is the only path an election may take.
var phaseOrder = []Phase{
	PhasePreElection,
	PhaseNomination,
	PhaseCampaigning,
	PhaseVoting,
	PhaseCounting,
	PhaseResultsPublished,
}

// Phases returns the lifecycle in order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

func (p Phase) index() int {
	for i, q := range phaseOrder {
		if q == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p.index() >= 0
}

// Next returns the phase that follows p, or false at the end of the lifecycle.
func (p Phase) Next() (Phase, bool) {
	i := p.index()
	if i < 0 || i == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[i+1], true
}

// CanTransition reports whether an election in phase from may move to phase to.
func CanTransition(from, to Phase) bool {
	next, ok := from.Next()
	return ok && next == to
}

// CheckTransition is CanTransition with an error suitable for callers.
func CheckTransition(from, to Phase) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
