package models

import (
	"net/url"
	"strings"
)

type Participant struct {
	ID           ID     `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Token        string `json:"token,omitempty"`
	HasNominated bool   `json:"has_nominated"`
	HasVoted     bool   `json:"has_voted"`
}

// ParticipantState is the locally tracked progress of one identity in one
// session.
type ParticipantState struct {
	HasNominated bool `json:"has_nominated"`
	HasVoted     bool `json:"has_voted"`
}

// VoteLink builds the participant link encoded into invitation QR codes.
func VoteLink(origin, token string) string {
	return strings.TrimRight(origin, "/") + "/vote?token=" + url.QueryEscape(token)
}

// ParseEmails splits a comma, semicolon or newline separated list, dropping
// blanks and duplicates while keeping the first-seen order.
func ParseEmails(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		e := strings.ToLower(strings.TrimSpace(f))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Enrollment is the backend's answer to a join or token check: who the
// participant is, the session they belong to and their progress in it.
type Enrollment struct {
	Participant  Participant `json:"participant"`
	Session      *Session    `json:"session"`
	HasNominated bool        `json:"has_nominated"`
	HasVoted     bool        `json:"has_voted"`
}

func (e *Enrollment) State() ParticipantState {
	return ParticipantState{HasNominated: e.HasNominated, HasVoted: e.HasVoted}
}
