package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/common"
	"github.com/dmitrijs2005/recognize/internal/logging"
	"github.com/dmitrijs2005/recognize/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(baseURL, 2*time.Second, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com", time.Second, logging.Discard())
	require.Error(t, err)

	_, err = NewHTTPClient("://", time.Second, logging.Discard())
	require.Error(t, err)
}

func TestAdminLogin(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()

	err := c.AdminLogin(ctx, "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.IsAdmin())

	require.NoError(t, c.AdminLogin(ctx, testutil.AdminPassword))
	assert.True(t, c.IsAdmin())

	c.AdminLogout()
	assert.False(t, c.IsAdmin())
}

func TestAdminLogin_FailedProbeKeepsEarlierLogin(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()

	require.NoError(t, c.AdminLogin(ctx, testutil.AdminPassword))
	require.ErrorIs(t, c.AdminLogin(ctx, "wrong"), ErrUnauthorized)
	assert.True(t, c.IsAdmin())
}

func TestAdminCall_WithoutLogin(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())

	_, err := c.ListParticipants(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, 0, b.CallCount("participants"))
}

func TestUnauthorizedClearsPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/check" {
			w.WriteHeader(http.StatusOK)
			return
		}
		// Some deployments answer 200 with the error in the body.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, c.AdminLogin(ctx, "pw"))

	_, err := c.ListParticipants(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, CategoryUnauthorized, Classify(err))
	assert.False(t, c.IsAdmin())
}

func TestGetSession(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()

	_, err := c.GetSession(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)

	first := b.AddSession("first", models.PhaseVoting)
	b.AddSession("second", models.PhaseSetup)

	s, err := c.GetSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "second", s.Title)

	s, err = c.GetSession(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", s.Title)
	assert.Equal(t, models.PhaseVoting, s.Phase)
}

func TestCreateAndPatchSession(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()
	require.NoError(t, c.AdminLogin(ctx, testutil.AdminPassword))

	s, err := c.CreateSession(ctx, models.CreateSessionRequest{Title: "Review", MeetingDate: "2026-10-20"})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSetup, s.Phase)
	assert.Equal(t, "2026-10-20", s.MeetingDate)

	s, err = c.PatchSession(ctx, models.PatchSessionRequest{SessionID: s.ID, Phase: models.PhaseNomination})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseNomination, s.Phase)

	_, err = c.PatchSession(ctx, models.PatchSessionRequest{SessionID: s.ID, Phase: models.PhaseClosed})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Invalid phase transition")
	assert.Equal(t, CategoryBusiness, Classify(err))
}

func TestParticipants(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()
	require.NoError(t, c.AdminLogin(ctx, testutil.AdminPassword))

	msg, err := c.CreateParticipants(ctx, []string{"a@x.io", "b@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "Added 2 participants", msg)

	ps, err := c.ListParticipants(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.NotEmpty(t, ps[0].Token)

	sent, err := c.SendParticipantEmails(ctx, []string{"a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestJoinAndCheckToken(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)
	b.AddParticipant(models.Participant{ID: "p1", Email: "a@x.io", Name: "Ann", Token: "tok"})

	e, err := c.Join(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", e.Participant.Name)
	assert.Equal(t, s.ID, e.Session.ID)

	e, err = c.CheckToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ann", e.Participant.Name)
	assert.False(t, e.HasNominated)

	_, err = c.CheckToken(ctx, "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid token", apiErr.Message)
}

func TestNominationsAndVotes(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)

	n, err := c.CreateNomination(ctx, models.NominationRequest{NominatorName: "Ann", NomineeName: "Ann", Reason: "shipped"})
	require.NoError(t, err)
	require.NotNil(t, n)

	list, err := c.ListNominations(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	b.SetPhase(s.ID, models.PhaseVoting)
	require.NoError(t, c.CreateVote(ctx, models.VoteRequest{VoterName: "Bob", NominationIDs: []models.ID{n.ID}}))
	require.NoError(t, c.CreateVote(ctx, models.VoteRequest{VoterName: "Cy"}))

	b.Lock()
	assert.Equal(t, []models.ID{}, b.Votes[s.ID]["Cy"])
	b.Unlock()

	err = c.CreateVote(ctx, models.VoteRequest{VoterName: "Bob", NominationIDs: []models.ID{n.ID}})
	assert.Equal(t, CategoryBusiness, Classify(err))
}

func TestDeleteNomination(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)
	n, err := c.CreateNomination(ctx, models.NominationRequest{NominatorName: "Ann", NomineeName: "Ann", Reason: "r"})
	require.NoError(t, err)

	require.ErrorIs(t, c.DeleteNomination(ctx, n.ID), ErrNotLoggedIn)

	require.NoError(t, c.AdminLogin(ctx, testutil.AdminPassword))
	require.NoError(t, c.DeleteNomination(ctx, n.ID))

	list, err := c.ListNominations(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.Error(t, c.DeleteNomination(ctx, ""))
}

func TestUnavailable(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b.URL())
	b.SetDown(true)

	_, err := c.GetSession(context.Background(), "")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, CategoryUnavailable, Classify(err))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	_, err := c.GetSession(context.Background(), "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"session":{"id":1,"title":"t","phase":"setup"}}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	_, err := c.GetSession(context.Background(), "")
	require.NoError(t, err)

	_, err = uuid.Parse(got.Get(common.RequestIDHeader))
	require.NoError(t, err)
	assert.Empty(t, got.Get(common.AuthorizationHeader))
}

func TestPlainErrorStatusBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("<html>bad</html>"))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	_, err := c.ListNominations(context.Background(), "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Request", apiErr.Message)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryNone, Classify(nil))
	assert.Equal(t, CategoryUnauthorized, Classify(ErrNotLoggedIn))
	assert.Equal(t, CategoryBusiness, Classify(errors.Join(errors.New("ctx"), &APIError{Status: 400, Message: "x"})))
	assert.Equal(t, CategoryUnavailable, Classify(errors.New("weird")))
	assert.Equal(t, "business", CategoryBusiness.String())
}
