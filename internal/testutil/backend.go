// Package testutil provides an in-memory stand-in for the recognition backend
// so client, service and CLI tests can run against real HTTP.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/common"
	"github.com/gorilla/mux"
)

const AdminPassword = "letmein"

// Backend is a fake backend. Exported fields may be read by tests after
// taking Lock.
type Backend struct {
	sync.Mutex

	Sessions     map[models.ID]*models.Session
	CurrentID    models.ID
	Participants []models.Participant
	Nominations  map[models.ID][]models.Nomination
	Votes        map[models.ID]map[string][]models.ID
	SentEmails   []string

	// Calls counts requests per route name.
	Calls map[string]int
	// RejectNextPatch makes the next phase patch fail with this message.
	RejectNextPatch string
	// Down makes every route answer 503.
	Down bool

	nextID int
	server *httptest.Server
}

// NewBackend starts a fake backend and registers its shutdown with t.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		Sessions:    make(map[models.ID]*models.Session),
		Nominations: make(map[models.ID][]models.Nomination),
		Votes:       make(map[models.ID]map[string][]models.ID),
		Calls:       make(map[string]int),
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base, to be passed to client.NewHTTPClient.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// AddSession inserts a session and makes it current. The returned copy is
// safe to modify.
func (b *Backend) AddSession(title string, phase models.Phase) *models.Session {
	b.Lock()
	defer b.Unlock()
	s := &models.Session{ID: b.id(), Title: title, Phase: phase}
	b.Sessions[s.ID] = s
	b.CurrentID = s.ID
	cp := *s
	return &cp
}

// SetPhase forces a phase change, as another admin would.
func (b *Backend) SetPhase(id models.ID, phase models.Phase) {
	b.Lock()
	defer b.Unlock()
	b.Sessions[id].Phase = phase
}

// SetDown toggles the 503 mode.
func (b *Backend) SetDown(down bool) {
	b.Lock()
	defer b.Unlock()
	b.Down = down
}

// AddParticipant registers a participant with a fixed token.
func (b *Backend) AddParticipant(p models.Participant) {
	b.Lock()
	defer b.Unlock()
	b.Participants = append(b.Participants, p)
}

func (b *Backend) CallCount(name string) int {
	b.Lock()
	defer b.Unlock()
	return b.Calls[name]
}

func (b *Backend) id() models.ID {
	b.nextID++
	return models.ID(strconv.Itoa(b.nextID))
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(b.availability)

	api.HandleFunc("/auth/check", b.admin(b.handleAuthCheck)).Methods(http.MethodGet).Name("auth_check")
	api.HandleFunc("/auth/join", b.handleJoin).Methods(http.MethodPost).Name("join")
	api.HandleFunc("/auth/check-token", b.handleCheckToken).Methods(http.MethodGet).Name("check_token")
	api.HandleFunc("/session", b.handleGetSession).Methods(http.MethodGet).Name("session")
	api.HandleFunc("/session/create", b.admin(b.handleCreateSession)).Methods(http.MethodPost).Name("session_create")
	api.HandleFunc("/session/patch", b.admin(b.handlePatchSession)).Methods(http.MethodPatch).Name("session_patch")
	api.HandleFunc("/participants", b.admin(b.handleParticipants)).Methods(http.MethodGet).Name("participants")
	api.HandleFunc("/participants/create", b.admin(b.handleCreateParticipants)).Methods(http.MethodPost).Name("participants_create")
	api.HandleFunc("/participants/send-emails", b.admin(b.handleSendEmails)).Methods(http.MethodPost).Name("send_emails")
	api.HandleFunc("/nominations", b.handleNominations).Methods(http.MethodGet).Name("nominations")
	api.HandleFunc("/nominations/create", b.handleCreateNomination).Methods(http.MethodPost).Name("nomination_create")
	api.HandleFunc("/nominations/{id}/delete", b.admin(b.handleDeleteNomination)).Methods(http.MethodDelete).Name("nomination_delete")
	api.HandleFunc("/votes/create", b.handleCreateVote).Methods(http.MethodPost).Name("vote_create")
	return r
}

func (b *Backend) availability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.Lock()
		if route := mux.CurrentRoute(r); route != nil {
			b.Calls[route.GetName()]++
		}
		down := b.Down
		b.Unlock()
		if down {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) admin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.AuthorizationHeader) != common.BearerValue(AdminPassword) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": common.UnauthorizedMessage})
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// session resolves ?session_id= or the current session. Caller holds the lock.
func (b *Backend) session(r *http.Request) *models.Session {
	id := models.ID(r.URL.Query().Get("session_id"))
	if id == "" {
		id = b.CurrentID
	}
	return b.Sessions[id]
}

func (b *Backend) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (b *Backend) enrollment(p models.Participant, s *models.Session) models.Enrollment {
	e := models.Enrollment{Participant: p, Session: s}
	if s == nil {
		return e
	}
	// Invited participants act under their token, joined ones under their name.
	key := p.Name
	if p.Token != "" {
		key = p.Token
	}
	for _, n := range b.Nominations[s.ID] {
		if n.NominatorName == key {
			e.HasNominated = true
		}
	}
	_, e.HasVoted = b.Votes[s.ID][key]
	return e
}

func (b *Backend) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(w, http.StatusBadRequest, "Name is required")
		return
	}
	b.Lock()
	defer b.Unlock()
	s := b.Sessions[b.CurrentID]
	if s == nil {
		fail(w, http.StatusNotFound, "No active session")
		return
	}
	p := models.Participant{ID: b.id(), Name: req.Name}
	writeJSON(w, http.StatusOK, b.enrollment(p, s))
}

func (b *Backend) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	b.Lock()
	defer b.Unlock()
	for _, p := range b.Participants {
		if p.Token != "" && p.Token == token {
			writeJSON(w, http.StatusOK, b.enrollment(p, b.Sessions[b.CurrentID]))
			return
		}
	}
	fail(w, http.StatusNotFound, "Invalid token")
}

func (b *Backend) handleGetSession(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()
	writeJSON(w, http.StatusOK, map[string]*models.Session{"session": b.session(r)})
}

func (b *Backend) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		fail(w, http.StatusBadRequest, "Title is required")
		return
	}
	b.Lock()
	defer b.Unlock()
	s := &models.Session{ID: b.id(), Title: req.Title, Phase: models.PhaseSetup, MeetingDate: req.MeetingDate}
	b.Sessions[s.ID] = s
	b.CurrentID = s.ID
	writeJSON(w, http.StatusOK, map[string]*models.Session{"session": s})
}

func (b *Backend) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	var req models.PatchSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.Lock()
	defer b.Unlock()
	if msg := b.RejectNextPatch; msg != "" {
		b.RejectNextPatch = ""
		fail(w, http.StatusConflict, msg)
		return
	}
	s := b.Sessions[req.SessionID]
	if s == nil {
		fail(w, http.StatusNotFound, "Session not found")
		return
	}
	if !s.Phase.CanTransition(req.Phase) {
		fail(w, http.StatusConflict, "Invalid phase transition from "+s.Phase.String()+" to "+req.Phase.String())
		return
	}
	s.Phase = req.Phase
	writeJSON(w, http.StatusOK, map[string]*models.Session{"session": s})
}

func (b *Backend) handleParticipants(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()
	writeJSON(w, http.StatusOK, map[string][]models.Participant{"participants": b.Participants})
}

func (b *Backend) handleCreateParticipants(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emails string `json:"emails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	emails := models.ParseEmails(req.Emails)
	if len(emails) == 0 {
		fail(w, http.StatusBadRequest, "No valid emails")
		return
	}
	b.Lock()
	defer b.Unlock()
	for _, e := range emails {
		id := b.id()
		b.Participants = append(b.Participants, models.Participant{ID: id, Email: e, Name: e, Token: "tok-" + id.String()})
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Added " + strconv.Itoa(len(emails)) + " participants"})
}

func (b *Backend) handleSendEmails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emails []string `json:"emails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.Lock()
	defer b.Unlock()
	b.SentEmails = append(b.SentEmails, req.Emails...)
	writeJSON(w, http.StatusOK, map[string]int{"sent": len(req.Emails)})
}

func (b *Backend) handleNominations(w http.ResponseWriter, r *http.Request) {
	b.Lock()
	defer b.Unlock()
	var list []models.Nomination
	if s := b.session(r); s != nil {
		list = b.Nominations[s.ID]
	}
	if list == nil {
		list = []models.Nomination{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Nomination{"nominations": list})
}

func (b *Backend) handleCreateNomination(w http.ResponseWriter, r *http.Request) {
	var req models.NominationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.Lock()
	defer b.Unlock()
	s := b.Sessions[b.CurrentID]
	if s == nil || s.Phase != models.PhaseNomination {
		fail(w, http.StatusBadRequest, "Nominations are closed")
		return
	}
	for _, n := range b.Nominations[s.ID] {
		if n.NominatorName == req.NominatorName {
			fail(w, http.StatusConflict, "You have already submitted a nomination")
			return
		}
	}
	n := models.Nomination{ID: b.id(), NomineeName: req.NomineeName, NominatorName: req.NominatorName, Reason: req.Reason}
	b.Nominations[s.ID] = append(b.Nominations[s.ID], n)
	writeJSON(w, http.StatusOK, map[string]models.Nomination{"nomination": n})
}

func (b *Backend) handleDeleteNomination(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	b.Lock()
	defer b.Unlock()
	s := b.Sessions[b.CurrentID]
	if s == nil {
		fail(w, http.StatusNotFound, "No active session")
		return
	}
	list := b.Nominations[s.ID]
	for i, n := range list {
		if n.ID == id {
			b.Nominations[s.ID] = append(list[:i:i], list[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	fail(w, http.StatusNotFound, "Nomination not found")
}

func (b *Backend) handleCreateVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.Lock()
	defer b.Unlock()
	s := b.Sessions[b.CurrentID]
	if s == nil || s.Phase != models.PhaseVoting {
		fail(w, http.StatusBadRequest, "Voting is closed")
		return
	}
	if req.NominationIDs == nil || len(req.NominationIDs) > models.MaxBallotPicks {
		fail(w, http.StatusBadRequest, "Select up to 3 nominations or none")
		return
	}
	if b.Votes[s.ID] == nil {
		b.Votes[s.ID] = make(map[string][]models.ID)
	}
	if _, ok := b.Votes[s.ID][req.VoterName]; ok {
		fail(w, http.StatusConflict, "You have already voted")
		return
	}
	b.Votes[s.ID][req.VoterName] = req.NominationIDs
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
