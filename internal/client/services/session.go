package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/logging"
)

// DefaultPollInterval is used by Watch when no interval is given.
const DefaultPollInterval = 4 * time.Second

var ErrNoTransition = errors.New("session is closed and has no next phase")

// SessionController owns the client's cached copy of the session. The
// cache only changes on a successful fetch or a confirmed phase patch.
type SessionController struct {
	client client.Client
	log    logging.Logger

	mu sync.RWMutex
	// pinned selects a session by id; empty follows the backend's current one.
	pinned  models.ID
	session *models.Session
}

func NewSessionController(c client.Client, log logging.Logger) *SessionController {
	return &SessionController{client: c, log: log}
}

// Snapshot returns a copy of the cached session, or nil.
func (c *SessionController) Snapshot() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.session)
}

// SessionID is the id of the cached session, falling back to the pinned id.
func (c *SessionController) SessionID() models.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil {
		return c.session.ID
	}
	return c.pinned
}

// Pinned reports the explicitly selected session id, if any.
func (c *SessionController) Pinned() models.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pinned
}

func clone(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// changed reports whether the participant-visible state differs.
func changed(prev, cur *models.Session) bool {
	if prev == nil || cur == nil {
		return prev != cur
	}
	return prev.ID != cur.ID || prev.Phase != cur.Phase
}

// Switch pins the controller to sessionID (empty follows the current
// session) and drops the cache so nothing of the old session is shown.
func (c *SessionController) Switch(ctx context.Context, sessionID models.ID) (*models.Session, error) {
	sessionID = models.ID(strings.TrimSpace(sessionID.String()))
	if sessionID != "" {
		if err := checkScope(sessionID); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.pinned = sessionID
	c.session = nil
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches the session and overwrites the cache. When the backend has
// no session the cache is cleared and client.ErrNoSession returned; any other
// failure leaves the cache untouched.
func (c *SessionController) Refresh(ctx context.Context) (*models.Session, error) {
	_, cur, err := c.refresh(ctx)
	return cur, err
}

func (c *SessionController) refresh(ctx context.Context) (prev, cur *models.Session, err error) {
	c.mu.RLock()
	pinned := c.pinned
	c.mu.RUnlock()

	s, err := c.client.GetSession(ctx, pinned)
	if err != nil && !errors.Is(err, client.ErrNoSession) {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinned != pinned {
		// Switched while the request was in flight.
		s := clone(c.session)
		return s, s, nil
	}
	prev = c.session
	c.session = s
	return clone(prev), clone(s), err
}

func (c *SessionController) store(s *models.Session) {
	c.mu.Lock()
	c.session = clone(s)
	if c.pinned != "" {
		c.pinned = s.ID
	}
	c.mu.Unlock()
}

// Create starts a new session in the setup phase and caches it. An empty
// title falls back to models.DefaultSessionTitle.
func (c *SessionController) Create(ctx context.Context, title, meetingDate string) (*models.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultSessionTitle
	}
	s, err := c.client.CreateSession(ctx, models.CreateSessionRequest{Title: title, MeetingDate: strings.TrimSpace(meetingDate)})
	if err != nil {
		return nil, err
	}
	c.store(s)
	c.log.Info(ctx, "session created", "session_id", s.ID, "title", s.Title)
	return clone(s), nil
}

// Advance asks the backend to move the cached session to its next phase.
// The cache changes only after the backend confirms. A business-rule
// rejection triggers a resync so the admin sees the authoritative phase.
func (c *SessionController) Advance(ctx context.Context) (*models.Session, error) {
	cur := c.Snapshot()
	if cur == nil {
		return nil, client.ErrNoSession
	}
	next, ok := cur.Phase.Next()
	if !ok {
		return nil, ErrNoTransition
	}

	s, err := c.client.PatchSession(ctx, models.PatchSessionRequest{SessionID: cur.ID, Phase: next})
	if err != nil {
		if client.Classify(err) == client.CategoryBusiness {
			if _, rerr := c.Refresh(ctx); rerr != nil {
				c.log.Warn(ctx, "resync after rejected advance failed", "session_id", cur.ID, "error", rerr)
			}
		}
		return nil, err
	}

	c.store(s)
	c.log.Info(ctx, "phase advanced", "session_id", s.ID, "from", cur.Phase, "to", s.Phase)

	if fresh, err := c.Refresh(ctx); err == nil && fresh != nil {
		return fresh, nil
	}
	return clone(s), nil
}

// Watch re-fetches the session every interval until the cached session is
// closed or ctx is done. onChange, if set, is called from the watcher
// goroutine whenever the phase or session id changes. Failed polls are
// logged and leave the cache stale.
func (c *SessionController) Watch(ctx context.Context, interval time.Duration, onChange func(prev, cur *models.Session)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if s := c.Snapshot(); s != nil && s.Phase.IsTerminal() {
			c.log.Debug(ctx, "session closed, watcher stopped", "session_id", s.ID)
			return
		}

		select {
		case <-ticker.C:
			prev, cur, err := c.refresh(ctx)
			if err != nil && !errors.Is(err, client.ErrNoSession) {
				if ctx.Err() != nil {
					return
				}
				c.log.Warn(ctx, "session poll failed", "error", err)
				continue
			}
			if changed(prev, cur) && onChange != nil {
				onChange(prev, cur)
			}

		case <-ctx.Done():
			return
		}
	}
}
