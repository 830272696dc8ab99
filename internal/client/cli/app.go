package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/config"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recognize/internal/client/services"
	"github.com/dmitrijs2005/recognize/internal/logging"
)

type App struct {
	config      *config.Config
	api         client.Client
	db          *sql.DB
	sessions    *services.SessionController
	admin       services.AdminService
	participant services.ParticipantService
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	// ballot state of the participant for the cached session.
	ballot     models.Ballot
	candidates []models.Nomination

	watchMu   sync.Mutex
	stopWatch context.CancelFunc
}

// NewApp builds the client stack from c: the HTTP client, the identity
// store (SQLite at c.StorePath, in memory when empty) and the services.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	var (
		db  *sql.DB
		ids services.IdentityService
	)
	if c.StorePath == "" {
		ids = services.NewIdentityService(metadata.NewMemoryRepository())
	} else {
		db, err = client.InitDatabase(ctx, c.StorePath)
		if err != nil {
			log.Error(ctx, "error initializing identity store", "path", c.StorePath, "error", err)
			_ = api.Close()
			return nil, err
		}
		ids = services.NewSQLiteIdentityService(db)
	}

	a := newApp(c, api, ids, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, api client.Client, ids services.IdentityService, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:      c,
		api:         api,
		sessions:    services.NewSessionController(api, log),
		admin:       services.NewAdminService(api, log),
		participant: services.NewParticipantService(api, ids, log),
		log:         log,
		reader:      r,
		out:         w,
	}
}

// Run loads the current session, starts the watcher and blocks in the REPL
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the recognize CLI (type 'help' for commands)")
	if err := a.Refresh(ctx, nil); err != nil && !errors.Is(err, client.ErrNoSession) {
		a.report(err)
	}
	a.startWatcher(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops the watcher and releases the client and the store.
func (a *App) Close() error {
	a.stopWatcher()
	err := a.api.Close()
	if a.db != nil {
		err = errors.Join(err, a.db.Close())
	}
	return err
}

func (a *App) isAdmin() bool {
	return a.admin.IsAdmin()
}

// startWatcher (re)starts polling for the cached session. Any previous
// watcher is stopped first.
func (a *App) startWatcher(ctx context.Context) {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.stopWatch != nil {
		a.stopWatch()
	}
	wctx, cancel := context.WithCancel(ctx)
	a.stopWatch = cancel
	go a.sessions.Watch(wctx, a.config.PollInterval, a.onPhaseChange)
}

func (a *App) stopWatcher() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
}

func (a *App) onPhaseChange(prev, cur *models.Session) {
	switch {
	case cur == nil:
		printlnFn("\nThe session is no longer available.")
	case prev == nil || prev.ID != cur.ID:
		printlnFn(fmt.Sprintf("\nSession #%s %q: %s", cur.ID, cur.Title, cur.Phase.Status()))
	default:
		printlnFn(fmt.Sprintf("\nPhase changed: %s -> %s", prev.Phase.Label(), cur.Phase.Label()))
	}
}

func (a *App) getStatus() string {
	s := "no session"
	if cur := a.sessions.Snapshot(); cur != nil {
		s = fmt.Sprintf("#%s %s", cur.ID, cur.Phase)
	}
	if a.isAdmin() {
		s = "admin " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// report prints err the way its category asks for.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotLoggedIn):
		printlnFn("Log in as admin first (login).")
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn("Not authorized. Admin login cleared, please log in again.")
	case errors.As(err, &apiErr):
		printlnFn("Error:", apiErr.Message)
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		printlnFn("Server unavailable. Try again.")
	default:
		printlnFn("Error:", err.Error())
	}
}
