package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/common"
	"github.com/dmitrijs2005/recognize/internal/logging"
)

var (
	ErrNoEmails           = errors.New("no valid email addresses given")
	ErrDeleteNotAllowed   = errors.New("nominations can only be deleted while nominations are open")
	ErrNoParticipantLinks = errors.New("no participants with tokens")
)

// AdminService is the admin panel: login, participant management,
// nomination moderation and results.
//
// All calls except Login, Logout and IsAdmin need a prior Login; they fail
// with a client.CategoryUnauthorized error otherwise.
type AdminService interface {
	Login(ctx context.Context, password []byte) error
	Logout()
	IsAdmin() bool

	Participants(ctx context.Context) ([]models.Participant, error)
	// Invite registers every address found in raw and returns the backend's
	// summary.
	Invite(ctx context.Context, raw string) (string, error)
	// SendInvites mails vote links to emails, or to every participant when
	// emails is empty.
	SendInvites(ctx context.Context, emails []string) (int, error)
	VoteLinks(ctx context.Context, origin string) ([]VoteLink, error)

	Nominations(ctx context.Context, sessionID models.ID) ([]models.Nomination, error)
	DeleteNomination(ctx context.Context, s *models.Session, id models.ID) error
	Tally(ctx context.Context, sessionID models.ID) ([]models.NomineeCount, error)
}

// VoteLink is the personal vote page address of one participant.
type VoteLink struct {
	Email string
	URL   string
}

type adminService struct {
	client client.Client
	log    logging.Logger
}

func NewAdminService(c client.Client, log logging.Logger) AdminService {
	return &adminService{client: c, log: log}
}

// Login verifies password with the backend. The caller's buffer is wiped.
func (a *adminService) Login(ctx context.Context, password []byte) error {
	defer common.WipeByteArray(password)
	if err := a.client.AdminLogin(ctx, string(password)); err != nil {
		return err
	}
	a.log.Info(ctx, "admin logged in")
	return nil
}

func (a *adminService) Logout() {
	a.client.AdminLogout()
}

func (a *adminService) IsAdmin() bool {
	return a.client.IsAdmin()
}

func (a *adminService) Participants(ctx context.Context) ([]models.Participant, error) {
	return a.client.ListParticipants(ctx)
}

func (a *adminService) Invite(ctx context.Context, raw string) (string, error) {
	emails := models.ParseEmails(raw)
	if len(emails) == 0 {
		return "", ErrNoEmails
	}
	return a.client.CreateParticipants(ctx, emails)
}

func (a *adminService) SendInvites(ctx context.Context, emails []string) (int, error) {
	if len(emails) == 0 {
		ps, err := a.client.ListParticipants(ctx)
		if err != nil {
			return 0, err
		}
		for _, p := range ps {
			if p.Email != "" {
				emails = append(emails, p.Email)
			}
		}
	}
	if len(emails) == 0 {
		return 0, ErrNoEmails
	}
	sent, err := a.client.SendParticipantEmails(ctx, emails)
	if err != nil {
		return 0, err
	}
	a.log.Info(ctx, "invitations sent", "requested", len(emails), "sent", sent)
	return sent, nil
}

func (a *adminService) VoteLinks(ctx context.Context, origin string) ([]VoteLink, error) {
	ps, err := a.client.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	links := make([]VoteLink, 0, len(ps))
	for _, p := range ps {
		if p.Token == "" {
			continue
		}
		links = append(links, VoteLink{Email: p.Email, URL: models.VoteLink(origin, p.Token)})
	}
	if len(links) == 0 {
		return nil, ErrNoParticipantLinks
	}
	return links, nil
}

func (a *adminService) Nominations(ctx context.Context, sessionID models.ID) ([]models.Nomination, error) {
	return a.client.ListNominations(ctx, sessionID)
}

func (a *adminService) DeleteNomination(ctx context.Context, s *models.Session, id models.ID) error {
	if s == nil {
		return client.ErrNoSession
	}
	if s.Phase != models.PhaseNomination {
		return ErrDeleteNotAllowed
	}
	if err := a.client.DeleteNomination(ctx, id); err != nil {
		return err
	}
	a.log.Info(ctx, "nomination deleted", "session_id", s.ID, "nomination_id", id)
	return nil
}

func (a *adminService) Tally(ctx context.Context, sessionID models.ID) ([]models.NomineeCount, error) {
	list, err := a.client.ListNominations(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return models.Tally(list), nil
}
