package models

import (
	"errors"
	"slices"
)

// MaxBallotPicks is the number of nominees a voter may choose.
const MaxBallotPicks = 3

var ErrEmptyBallot = errors.New(`select at least one candidate or "None of the Above"`)

// Ballot collects a voter's choices before submission. Picking a nominee and
// choosing "None of the Above" are mutually exclusive.
type Ballot struct {
	picks []ID
	none  bool
}

// Toggle adds or removes id. Adding beyond MaxBallotPicks is ignored.
// Picking a nominee clears the none flag.
func (b *Ballot) Toggle(id ID) bool {
	if i := slices.Index(b.picks, id); i >= 0 {
		b.picks = slices.Delete(b.picks, i, i+1)
		return true
	}
	if len(b.picks) >= MaxBallotPicks {
		return false
	}
	b.picks = append(b.picks, id)
	b.none = false
	return true
}

// ToggleNone flips "None of the Above". Setting it clears all picks.
func (b *Ballot) ToggleNone() {
	b.none = !b.none
	if b.none {
		b.picks = nil
	}
}

func (b *Ballot) None() bool { return b.none }

func (b *Ballot) Picks() []ID { return slices.Clone(b.picks) }

func (b *Ballot) Reset() {
	b.picks = nil
	b.none = false
}

// Payload returns the nomination ids to submit: an empty, non-nil slice for
// "None of the Above", or 1 to MaxBallotPicks ids.
func (b *Ballot) Payload() ([]ID, error) {
	if b.none {
		return []ID{}, nil
	}
	if len(b.picks) == 0 {
		return nil, ErrEmptyBallot
	}
	return slices.Clone(b.picks), nil
}

type VoteRequest struct {
	VoterName     string `json:"voter_name"`
	NominationIDs []ID   `json:"nomination_ids"`
}
