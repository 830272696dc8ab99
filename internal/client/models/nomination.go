package models

import (
	"errors"
	"strings"
)

var ErrIncompleteNomination = errors.New("nominee name and reason are required")

type Nomination struct {
	ID            ID     `json:"id"`
	NomineeName   string `json:"nominee_name"`
	NominatorName string `json:"nominator_name"`
	Reason        string `json:"reason"`
}

type NominationRequest struct {
	NominatorName string `json:"nominator_name"`
	NomineeName   string `json:"nominee_name"`
	Reason        string `json:"reason"`
}

// Validate trims the free-text fields and rejects empty ones.
func (r *NominationRequest) Validate() error {
	r.NominatorName = strings.TrimSpace(r.NominatorName)
	r.NomineeName = strings.TrimSpace(r.NomineeName)
	r.Reason = strings.TrimSpace(r.Reason)
	if r.NomineeName == "" || r.Reason == "" {
		return ErrIncompleteNomination
	}
	return nil
}
