package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/logging"
	"github.com/dmitrijs2005/recognize/internal/testutil"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

// newBackendClient returns a real HTTP client wired to a fake backend.
func newBackendClient(t *testing.T) (*testutil.Backend, *client.HTTPClient) {
	t.Helper()
	b := testutil.NewBackend(t)
	c, err := client.NewHTTPClient(b.URL(), 2*time.Second, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return b, c
}

// ---- fake client ----

// fakeClient implements client.Client with scripted session answers for
// SessionController tests. Calls not used by those tests return zero values.
type fakeClient struct {
	mu sync.Mutex

	// sessions is consumed one per GetSession call; the last one repeats.
	sessions []*models.Session
	getErrs  []error
	getCalls int
	lastGet  models.ID

	patchRet   *models.Session
	patchErr   error
	patchCalls int
	lastPatch  models.PatchSessionRequest

	createRet  *models.Session
	createErr  error
	lastCreate models.CreateSessionRequest

	admin bool
}

func (f *fakeClient) GetSession(_ context.Context, id models.ID) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.getCalls
	f.getCalls++
	f.lastGet = id
	if i < len(f.getErrs) && f.getErrs[i] != nil {
		return nil, f.getErrs[i]
	}
	if len(f.sessions) == 0 {
		return nil, client.ErrNoSession
	}
	if i >= len(f.sessions) {
		i = len(f.sessions) - 1
	}
	if f.sessions[i] == nil {
		return nil, client.ErrNoSession
	}
	cp := *f.sessions[i]
	return &cp, nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeClient) PatchSession(_ context.Context, req models.PatchSessionRequest) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patchCalls++
	f.lastPatch = req
	return f.patchRet, f.patchErr
}

func (f *fakeClient) CreateSession(_ context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	f.lastCreate = req
	return f.createRet, f.createErr
}

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) AdminLogin(context.Context, string) error { f.admin = true; return nil }
func (f *fakeClient) AdminLogout() { f.admin = false }
func (f *fakeClient) IsAdmin() bool { return f.admin }
func (f *fakeClient) ListParticipants(context.Context) ([]models.Participant, error) {
	return nil, nil
}
func (f *fakeClient) CreateParticipants(context.Context, []string) (string, error) { return "", nil }
func (f *fakeClient) SendParticipantEmails(context.Context, []string) (int, error) { return 0, nil }
func (f *fakeClient) Join(context.Context, string) (*models.Enrollment, error) { return nil, nil }
func (f *fakeClient) CheckToken(context.Context, string) (*models.Enrollment, error) {
	return nil, nil
}
func (f *fakeClient) ListNominations(context.Context, models.ID) ([]models.Nomination, error) {
	return nil, nil
}
func (f *fakeClient) CreateNomination(context.Context, models.NominationRequest) (*models.Nomination, error) {
	return nil, nil
}
func (f *fakeClient) DeleteNomination(context.Context, models.ID) error { return nil }
func (f *fakeClient) CreateVote(context.Context, models.VoteRequest) error { return nil }
