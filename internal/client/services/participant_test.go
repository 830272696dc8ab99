package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recognize/internal/logging"
	"github.com/dmitrijs2005/recognize/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParticipant(t *testing.T) (*testutil.Backend, ParticipantService, IdentityService) {
	t.Helper()
	b, c := newBackendClient(t)
	ids := NewIdentityService(metadata.NewMemoryRepository())
	return b, NewParticipantService(c, ids, logging.Discard()), ids
}

func TestJoin_RemembersIdentity(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)

	_, err := p.Join(ctx, "  ")
	require.ErrorIs(t, err, ErrNameRequired)

	e, err := p.Join(ctx, " Ann ")
	require.NoError(t, err)
	assert.Equal(t, s.ID, e.Session.ID)

	id, err := p.Identity(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
	assert.False(t, id.State.HasNominated)
}

func TestJoin_NoSession(t *testing.T) {
	_, p, _ := newParticipant(t)
	_, err := p.Join(context.Background(), "Ann")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No active session", apiErr.Message)
}

func TestUseToken_SeedsStateFromBackend(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseVoting)
	b.AddParticipant(models.Participant{ID: "p1", Email: "ann@x.io", Name: "Ann", Token: "tok"})
	b.Lock()
	b.Votes[s.ID] = map[string][]models.ID{"tok": {}}
	b.Unlock()

	_, err := p.UseToken(ctx, "")
	require.ErrorIs(t, err, ErrTokenRequired)

	_, err = p.UseToken(ctx, "tok")
	require.NoError(t, err)

	id, err := p.Identity(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", id.Token)
	assert.True(t, id.State.HasVoted)

	v, err := p.View(ctx, s, 3)
	require.NoError(t, err)
	assert.Equal(t, models.ViewVoteDone, v)
}

func TestNominate_OnceDuringNomination(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)

	_, err := p.Nominate(ctx, s, "", "shipped it")
	require.ErrorIs(t, err, ErrNotJoined)

	_, err = p.Join(ctx, "Ann")
	require.NoError(t, err)

	_, err = p.Nominate(ctx, s, "", "  ")
	require.ErrorIs(t, err, models.ErrIncompleteNomination)

	n, err := p.Nominate(ctx, s, "", "shipped it")
	require.NoError(t, err)
	assert.Equal(t, "Ann", n.NomineeName)
	assert.Equal(t, "Ann", n.NominatorName)

	_, err = p.Nominate(ctx, s, "", "again")
	require.ErrorIs(t, err, ErrAlreadyNominated)

	v, err := p.View(ctx, s, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ViewPitchDone, v)
}

func TestJoin_KeysByName(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)

	_, err := p.Join(ctx, "Ann")
	require.NoError(t, err)

	id, err := p.Identity(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, id.Token)
	assert.Equal(t, "Ann", id.Key())
}

func TestUseToken_ActsUnderToken(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)
	b.AddParticipant(models.Participant{ID: "p1", Email: "a@x.io", Token: "tok-abc"})

	e, err := p.UseToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", e.Participant.Name)

	n, err := p.Nominate(ctx, s, "Bob", "fixed the build")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", n.NominatorName)
	assert.Equal(t, "Bob", n.NomineeName)

	b.SetPhase(s.ID, models.PhaseVoting)
	s.Phase = models.PhaseVoting

	var ballot models.Ballot
	ballot.Toggle(n.ID)
	require.NoError(t, p.Vote(ctx, s, &ballot))

	b.Lock()
	assert.Equal(t, map[string][]models.ID{"tok-abc": {n.ID}}, b.Votes[s.ID])
	b.Unlock()

	// The backend reports progress for the token on the next check.
	e, err = p.UseToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.True(t, e.HasNominated)
	assert.True(t, e.HasVoted)
}

func TestNominate_WrongPhase(t *testing.T) {
	b, p, _ := newParticipant(t)
	s := b.AddSession("s", models.PhaseVoting)

	_, err := p.Nominate(context.Background(), s, "Ann", "r")
	require.ErrorIs(t, err, ErrNominationsClosed)

	_, err = p.Nominate(context.Background(), nil, "Ann", "r")
	require.ErrorIs(t, err, client.ErrNoSession)
}

func TestVote_Flow(t *testing.T) {
	b, p, ids := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseVoting)
	b.Lock()
	b.Nominations[s.ID] = []models.Nomination{
		{ID: "n1", NomineeName: "Ann"},
		{ID: "n2", NomineeName: "Bob"},
	}
	b.Unlock()
	require.NoError(t, ids.SetName(ctx, s.ID, "Cy"))

	cands, err := p.Candidates(ctx, s)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	var ballot models.Ballot
	require.ErrorIs(t, p.Vote(ctx, s, &ballot), models.ErrEmptyBallot)

	ballot.Toggle("n2")
	require.NoError(t, p.Vote(ctx, s, &ballot))
	assert.Empty(t, ballot.Picks())

	b.Lock()
	assert.Equal(t, []models.ID{"n2"}, b.Votes[s.ID]["Cy"])
	b.Unlock()

	ballot.ToggleNone()
	require.ErrorIs(t, p.Vote(ctx, s, &ballot), ErrAlreadyVoted)

	cands, err = p.Candidates(ctx, s)
	require.NoError(t, err)
	assert.Nil(t, cands)
}

func TestVote_NoneOfTheAbove(t *testing.T) {
	b, p, ids := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseVoting)
	require.NoError(t, ids.SetName(ctx, s.ID, "Cy"))

	var ballot models.Ballot
	ballot.ToggleNone()
	require.NoError(t, p.Vote(ctx, s, &ballot))

	b.Lock()
	assert.Equal(t, []models.ID{}, b.Votes[s.ID]["Cy"])
	b.Unlock()
}

func TestVote_Guards(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseResults)

	var ballot models.Ballot
	ballot.ToggleNone()
	require.ErrorIs(t, p.Vote(ctx, s, &ballot), ErrVotingClosed)
	require.ErrorIs(t, p.Vote(ctx, nil, &ballot), client.ErrNoSession)

	b.SetPhase(s.ID, models.PhaseVoting)
	s.Phase = models.PhaseVoting
	require.ErrorIs(t, p.Vote(ctx, s, &ballot), ErrNotJoined)
}

func TestCandidates_OutsideVoting(t *testing.T) {
	b, p, _ := newParticipant(t)
	s := b.AddSession("s", models.PhaseNomination)

	cands, err := p.Candidates(context.Background(), s)
	require.NoError(t, err)
	assert.Nil(t, cands)
	assert.Equal(t, 0, b.CallCount("nominations"))
}

func TestForget(t *testing.T) {
	b, p, _ := newParticipant(t)
	ctx := context.Background()
	s := b.AddSession("s", models.PhaseNomination)
	_, err := p.Join(ctx, "Ann")
	require.NoError(t, err)

	require.NoError(t, p.Forget(ctx, s.ID))
	id, err := p.Identity(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, id.Known())
}
