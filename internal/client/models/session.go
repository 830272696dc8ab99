package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a backend identifier. The backend may encode ids as JSON numbers or
// strings; both decode into the string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Int returns the numeric form of id for backends that key by integer.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id ID) String() string { return string(id) }

// Session is the client's cached copy of a backend-owned recognition round.
type Session struct {
	ID                     ID     `json:"id"`
	Title                  string `json:"title"`
	Phase                  Phase  `json:"phase"`
	MeetingDate            string `json:"meeting_date,omitempty"`
	RecognitionPeriodStart string `json:"recognition_period_start,omitempty"`
	RecognitionPeriodEnd   string `json:"recognition_period_end,omitempty"`
}

// DefaultSessionTitle is suggested when the admin creates a session.
const DefaultSessionTitle = "Fortnightly Goal Review"

type CreateSessionRequest struct {
	Title       string `json:"title"`
	MeetingDate string `json:"meeting_date,omitempty"`
}

type PatchSessionRequest struct {
	SessionID ID    `json:"session_id"`
	Phase     Phase `json:"phase"`
}
