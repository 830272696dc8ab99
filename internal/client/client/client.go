package client

import (
	"context"

	"github.com/dmitrijs2005/recognize/internal/client/models"
)

// Client is the contract with the recognition backend.
//
// Admin operations require a prior successful AdminLogin; the password is
// then attached to every admin call as a bearer value. An Unauthorized
// response clears it.
type Client interface {
	Close() error

	AdminLogin(ctx context.Context, password string) error
	AdminLogout()
	IsAdmin() bool

	GetSession(ctx context.Context, sessionID models.ID) (*models.Session, error)
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error)
	PatchSession(ctx context.Context, req models.PatchSessionRequest) (*models.Session, error)

	ListParticipants(ctx context.Context) ([]models.Participant, error)
	CreateParticipants(ctx context.Context, emails []string) (string, error)
	SendParticipantEmails(ctx context.Context, emails []string) (int, error)

	Join(ctx context.Context, name string) (*models.Enrollment, error)
	CheckToken(ctx context.Context, token string) (*models.Enrollment, error)

	ListNominations(ctx context.Context, sessionID models.ID) ([]models.Nomination, error)
	CreateNomination(ctx context.Context, req models.NominationRequest) (*models.Nomination, error)
	DeleteNomination(ctx context.Context, id models.ID) error

	CreateVote(ctx context.Context, req models.VoteRequest) error
}
