// Package models defines the session, nomination, vote and participant types
// shared by the transport, services and CLI layers.
package models

import (
	"errors"
	"fmt"
)

// Phase is the active step of a recognition session.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseNomination
	PhaseVoting
	PhaseResults
	PhaseClosed
)

var ErrUnknownPhase = errors.New("unknown phase")

// phaseNames holds the wire names in table order.
var phaseNames = [...]string{
	PhaseSetup:      "setup",
	PhaseNomination: "nomination",
	PhaseVoting:     "voting",
	PhaseResults:    "results",
	PhaseClosed:     "closed",
}

// transitions is the only source of legal phase changes. Phases are linear,
// there are no back-transitions, and closed has no successor.
var transitions = map[Phase]Phase{
	PhaseSetup:      PhaseNomination,
	PhaseNomination: PhaseVoting,
	PhaseVoting:     PhaseResults,
	PhaseResults:    PhaseClosed,
}

var phaseLabels = map[Phase]string{
	PhaseSetup:      "Setup",
	PhaseNomination: "Nomination",
	PhaseVoting:     "Voting",
	PhaseResults:    "Results",
	PhaseClosed:     "Closed",
}

var phaseStatuses = map[Phase]string{
	PhaseSetup:      "Setting Up",
	PhaseNomination: "Nominations Open",
	PhaseVoting:     "Voting in Progress",
	PhaseResults:    "Results Announced",
	PhaseClosed:     "Session Closed",
}

// advanceLabels names the admin action that moves INTO the keyed phase.
var advanceLabels = map[Phase]string{
	PhaseNomination: "Open Nominations",
	PhaseVoting:     "Open Voting",
	PhaseResults:    "Reveal Results",
	PhaseClosed:     "Close Session",
}

// Phases returns all phases in order.
func Phases() []Phase {
	return []Phase{PhaseSetup, PhaseNomination, PhaseVoting, PhaseResults, PhaseClosed}
}

// ParsePhase converts a wire name into a Phase.
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return Phase(p), nil
		}
	}
	return PhaseSetup, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

func (p Phase) Valid() bool {
	return p >= PhaseSetup && p <= PhaseClosed
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Next returns the successor phase. ok is false for closed.
func (p Phase) Next() (next Phase, ok bool) {
	next, ok = transitions[p]
	return next, ok
}

// IsTerminal reports whether no further transition is offered.
func (p Phase) IsTerminal() bool {
	_, ok := p.Next()
	return !ok
}

// CanTransition reports whether to is the direct successor of p.
func (p Phase) CanTransition(to Phase) bool {
	next, ok := p.Next()
	return ok && next == to
}

func (p Phase) Label() string {
	return phaseLabels[p]
}

// Status is the dashboard wording for the phase.
func (p Phase) Status() string {
	return phaseStatuses[p]
}

// AdvanceLabel is the caption of the admin action leaving p, or "" when p is
// terminal.
func (p Phase) AdvanceLabel() string {
	next, ok := p.Next()
	if !ok {
		return ""
	}
	return advanceLabels[next]
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
