package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/common"
	"github.com/dmitrijs2005/recognize/internal/logging"
	"github.com/google/uuid"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient talks JSON over HTTP to the recognition backend.
// It is safe for concurrent use; the watcher and the REPL share one.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        logging.Logger

	mu            sync.RWMutex
	adminPassword string
}

// NewHTTPClient validates baseURL and returns a client whose requests time
// out after timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// request describes one backend call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// admin attaches the stored password; password overrides it.
	admin    bool
	password string
}

// envelope is the subset of every response used for error reporting.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) password() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adminPassword
}

func (c *HTTPClient) setPassword(p string) {
	c.mu.Lock()
	c.adminPassword = p
	c.mu.Unlock()
}

func (c *HTTPClient) endpoint(r request) string {
	u := *c.baseURL
	u.Path = u.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, reqID)

	if r.admin || r.password != "" {
		secret := r.password
		if secret == "" {
			secret = c.password()
		}
		if secret == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeader, common.BearerValue(secret))
	}

	c.log.Debug(ctx, "api request", "method", r.method, "path", r.path, "request_id", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var env envelope
	if len(raw) > 0 {
		// Non-JSON bodies (proxy error pages) simply leave env empty.
		_ = json.Unmarshal(raw, &env)
	}

	if err := c.mapError(resp.StatusCode, env, r.admin); err != nil {
		c.log.Debug(ctx, "api error", "path", r.path, "status", resp.StatusCode, "request_id", reqID, "error", err)
		return err
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// mapError turns a response into one of the package's error kinds. An
// unauthorized answer to an admin call drops the stored password so the
// next admin action requires a fresh login.
func (c *HTTPClient) mapError(status int, env envelope, admin bool) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden || env.Error == common.UnauthorizedMessage {
		if admin {
			c.setPassword("")
		}
		return ErrUnauthorized
	}
	if env.Error != "" {
		return &APIError{Status: status, Message: env.Error}
	}
	switch {
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, http.StatusText(status))
	case status >= 400:
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Status: status, Message: msg}
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// AdminLogin checks password against the backend and keeps it for later
// admin calls. The password lives only in memory.
func (c *HTTPClient) AdminLogin(ctx context.Context, password string) error {
	if password == "" {
		return ErrUnauthorized
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/check", password: password}, nil); err != nil {
		return err
	}
	c.setPassword(password)
	return nil
}

func (c *HTTPClient) AdminLogout() {
	c.setPassword("")
}

func (c *HTTPClient) IsAdmin() bool {
	return c.password() != ""
}

func sessionQuery(sessionID models.ID) url.Values {
	if sessionID == "" {
		return nil
	}
	return url.Values{"session_id": []string{sessionID.String()}}
}

// GetSession fetches the session with sessionID, or the current one when
// sessionID is empty. ErrNoSession is returned when none exists.
func (c *HTTPClient) GetSession(ctx context.Context, sessionID models.ID) (*models.Session, error) {
	var resp struct {
		Session *models.Session `json:"session"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/session", query: sessionQuery(sessionID)}, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, ErrNoSession
	}
	return resp.Session, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	var resp struct {
		Session *models.Session `json:"session"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/session/create", body: req, admin: true}, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, fmt.Errorf("%w: create session returned no session", ErrUnavailable)
	}
	return resp.Session, nil
}

func (c *HTTPClient) PatchSession(ctx context.Context, req models.PatchSessionRequest) (*models.Session, error) {
	var resp struct {
		Session *models.Session `json:"session"`
	}
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/session/patch", body: req, admin: true}, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, fmt.Errorf("%w: patch session returned no session", ErrUnavailable)
	}
	return resp.Session, nil
}

func (c *HTTPClient) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var resp struct {
		Participants []models.Participant `json:"participants"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/participants", admin: true}, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

// CreateParticipants registers emails and returns the backend's summary
// message.
func (c *HTTPClient) CreateParticipants(ctx context.Context, emails []string) (string, error) {
	body := map[string]string{"emails": strings.Join(emails, ",")}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/participants/create", body: body, admin: true}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SendParticipantEmails dispatches invitations and returns how many were sent.
func (c *HTTPClient) SendParticipantEmails(ctx context.Context, emails []string) (int, error) {
	body := map[string][]string{"emails": emails}
	var resp struct {
		Sent int `json:"sent"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/participants/send-emails", body: body, admin: true}, &resp); err != nil {
		return 0, err
	}
	return resp.Sent, nil
}

func (c *HTTPClient) Join(ctx context.Context, name string) (*models.Enrollment, error) {
	var resp models.Enrollment
	body := map[string]string{"name": name}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/join", body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CheckToken(ctx context.Context, token string) (*models.Enrollment, error) {
	var resp models.Enrollment
	q := url.Values{"token": []string{token}}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/check-token", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListNominations(ctx context.Context, sessionID models.ID) ([]models.Nomination, error) {
	var resp struct {
		Nominations []models.Nomination `json:"nominations"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/nominations", query: sessionQuery(sessionID)}, &resp); err != nil {
		return nil, err
	}
	return resp.Nominations, nil
}

func (c *HTTPClient) CreateNomination(ctx context.Context, req models.NominationRequest) (*models.Nomination, error) {
	var resp struct {
		Nomination *models.Nomination `json:"nomination"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/nominations/create", body: req}, &resp); err != nil {
		return nil, err
	}
	return resp.Nomination, nil
}

func (c *HTTPClient) DeleteNomination(ctx context.Context, id models.ID) error {
	if id == "" {
		return errors.New("nomination id is required")
	}
	path := "/nominations/" + url.PathEscape(id.String()) + "/delete"
	return c.do(ctx, request{method: http.MethodDelete, path: path, admin: true}, nil)
}

func (c *HTTPClient) CreateVote(ctx context.Context, req models.VoteRequest) error {
	if req.NominationIDs == nil {
		req.NominationIDs = []models.ID{}
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/votes/create", body: req}, nil)
}
