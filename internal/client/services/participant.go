package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/logging"
)

var (
	ErrNotJoined           = errors.New("join the session first")
	ErrNominationsClosed   = errors.New("nominations are not open")
	ErrAlreadyNominated    = errors.New("you have already submitted a nomination")
	ErrVotingClosed        = errors.New("voting is not open")
	ErrAlreadyVoted        = errors.New("you have already voted")
	ErrNameRequired        = errors.New("name is required")
	ErrTokenRequired       = errors.New("token is required")
	ErrEnrollmentNoSession = errors.New("backend returned no session for the enrollment")
)

// ParticipantService is the participant vote page. Every operation is scoped
// to the session passed in; progress is tracked in IdentityService so one
// identity nominates and votes at most once per session.
type ParticipantService interface {
	Identity(ctx context.Context, sessionID models.ID) (Identity, error)
	// Join registers name with the backend for the current session.
	Join(ctx context.Context, name string) (*models.Enrollment, error)
	// UseToken validates an invitation token and adopts its identity.
	UseToken(ctx context.Context, token string) (*models.Enrollment, error)
	Nominate(ctx context.Context, s *models.Session, nominee, reason string) (*models.Nomination, error)
	// Candidates loads the ballot. It returns nil unless s is in voting and
	// the participant has not voted yet.
	Candidates(ctx context.Context, s *models.Session) ([]models.Nomination, error)
	Vote(ctx context.Context, s *models.Session, b *models.Ballot) error
	View(ctx context.Context, s *models.Session, nominations int) (models.View, error)
	Forget(ctx context.Context, sessionID models.ID) error
}

type participantService struct {
	client   client.Client
	identity IdentityService
	log      logging.Logger
}

func NewParticipantService(c client.Client, identity IdentityService, log logging.Logger) ParticipantService {
	return &participantService{client: c, identity: identity, log: log}
}

func (p *participantService) Identity(ctx context.Context, sessionID models.ID) (Identity, error) {
	return p.identity.Load(ctx, sessionID)
}

func (p *participantService) remember(ctx context.Context, e *models.Enrollment, token string) error {
	if e.Session == nil || e.Session.ID == "" {
		return ErrEnrollmentNoSession
	}
	return p.identity.Remember(ctx, e.Session.ID, Identity{
		Name:  e.Participant.Name,
		Token: token,
		State: e.State(),
	})
}

func (p *participantService) Join(ctx context.Context, name string) (*models.Enrollment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	e, err := p.client.Join(ctx, name)
	if err != nil {
		return nil, err
	}
	if e.Participant.Name == "" {
		e.Participant.Name = name
	}
	// Joined by name: the backend keys this participant by name.
	if err := p.remember(ctx, e, ""); err != nil {
		return nil, err
	}
	p.log.Info(ctx, "joined session", "session_id", e.Session.ID, "name", e.Participant.Name)
	return e, nil
}

func (p *participantService) UseToken(ctx context.Context, token string) (*models.Enrollment, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	e, err := p.client.CheckToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if e.Participant.Name == "" {
		e.Participant.Name = e.Participant.Email
	}
	if err := p.remember(ctx, e, token); err != nil {
		return nil, err
	}
	p.log.Info(ctx, "token accepted", "session_id", e.Session.ID, "name", e.Participant.Name)
	return e, nil
}

// Nominate submits a pitch. An empty nominee nominates the participant.
func (p *participantService) Nominate(ctx context.Context, s *models.Session, nominee, reason string) (*models.Nomination, error) {
	if s == nil {
		return nil, client.ErrNoSession
	}
	if s.Phase != models.PhaseNomination {
		return nil, ErrNominationsClosed
	}
	id, err := p.identity.Load(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if !id.Known() {
		return nil, ErrNotJoined
	}
	if id.State.HasNominated {
		return nil, ErrAlreadyNominated
	}

	if strings.TrimSpace(nominee) == "" {
		nominee = id.Name
	}
	req := models.NominationRequest{NominatorName: id.Key(), NomineeName: nominee, Reason: reason}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n, err := p.client.CreateNomination(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := p.identity.MarkNominated(ctx, s.ID); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *participantService) Candidates(ctx context.Context, s *models.Session) ([]models.Nomination, error) {
	if s == nil || s.Phase != models.PhaseVoting {
		return nil, nil
	}
	id, err := p.identity.Load(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if id.State.HasVoted {
		return nil, nil
	}
	return p.client.ListNominations(ctx, s.ID)
}

// Vote submits b and resets it. "None of the Above" is sent as an empty
// nomination list.
func (p *participantService) Vote(ctx context.Context, s *models.Session, b *models.Ballot) error {
	if s == nil {
		return client.ErrNoSession
	}
	if s.Phase != models.PhaseVoting {
		return ErrVotingClosed
	}
	id, err := p.identity.Load(ctx, s.ID)
	if err != nil {
		return err
	}
	if !id.Known() {
		return ErrNotJoined
	}
	if id.State.HasVoted {
		return ErrAlreadyVoted
	}

	ids, err := b.Payload()
	if err != nil {
		return err
	}
	if err := p.client.CreateVote(ctx, models.VoteRequest{VoterName: id.Key(), NominationIDs: ids}); err != nil {
		return err
	}
	b.Reset()
	return p.identity.MarkVoted(ctx, s.ID)
}

func (p *participantService) View(ctx context.Context, s *models.Session, nominations int) (models.View, error) {
	if s == nil {
		return models.ViewNoSession, nil
	}
	id, err := p.identity.Load(ctx, s.ID)
	if err != nil {
		return "", err
	}
	return models.ParticipantView(s, id.State, nominations), nil
}

func (p *participantService) Forget(ctx context.Context, sessionID models.ID) error {
	return p.identity.Forget(ctx, sessionID)
}
