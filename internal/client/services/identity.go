package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recognize/internal/dbx"
)

var (
	ErrNoSessionScope   = errors.New("session id is required")
	ErrInvalidSessionID = errors.New(`session id must not contain "/"`)
)

const (
	fieldName      = "name"
	fieldToken     = "token"
	fieldNominated = "nominated"
	fieldVoted     = "voted"
)

// Identity is what the client remembers about the participant in one
// session. Token is set only when the participant came in through an
// invitation link.
type Identity struct {
	Name  string
	Token string
	State models.ParticipantState
}

// Known reports whether the participant joined the session.
func (i Identity) Known() bool { return i.Name != "" }

// Key is how the backend identifies the participant as nominator and voter:
// the invitation token when there is one, the joined name otherwise.
func (i Identity) Key() string {
	if i.Token != "" {
		return i.Token
	}
	return i.Name
}

// IdentityService stores the participant identity, namespaced by session id.
// Values written for one session are never returned for another.
type IdentityService interface {
	Load(ctx context.Context, sessionID models.ID) (Identity, error)
	// Remember replaces everything stored for sessionID with id.
	Remember(ctx context.Context, sessionID models.ID, id Identity) error
	SetName(ctx context.Context, sessionID models.ID, name string) error
	MarkNominated(ctx context.Context, sessionID models.ID) error
	MarkVoted(ctx context.Context, sessionID models.ID) error
	Forget(ctx context.Context, sessionID models.ID) error
}

type identityService struct {
	repo metadata.Repository
	// db is set for SQLite stores so multi-key writes share a transaction.
	db *sql.DB
}

// NewIdentityService keeps identities in repo.
func NewIdentityService(repo metadata.Repository) IdentityService {
	return &identityService{repo: repo}
}

// NewSQLiteIdentityService keeps identities in the metadata table of db.
func NewSQLiteIdentityService(db *sql.DB) IdentityService {
	return &identityService{repo: metadata.NewSQLiteRepository(db), db: db}
}

// checkScope rejects ids that are empty or would nest inside another
// session's key namespace.
func checkScope(sessionID models.ID) error {
	if sessionID == "" {
		return ErrNoSessionScope
	}
	if strings.Contains(sessionID.String(), "/") {
		return ErrInvalidSessionID
	}
	return nil
}

func identityPrefix(sessionID models.ID) string {
	return "session/" + sessionID.String() + "/"
}

func identityKey(sessionID models.ID, field string) string {
	return identityPrefix(sessionID) + field
}

func (s *identityService) write(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repo)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, metadata.NewSQLiteRepository(tx))
	})
}

func (s *identityService) Load(ctx context.Context, sessionID models.ID) (Identity, error) {
	if err := checkScope(sessionID); err != nil {
		return Identity{}, err
	}
	values, err := s.repo.List(ctx, identityPrefix(sessionID))
	if err != nil {
		return Identity{}, err
	}
	_, nominated := values[identityKey(sessionID, fieldNominated)]
	_, voted := values[identityKey(sessionID, fieldVoted)]
	return Identity{
		Name:  string(values[identityKey(sessionID, fieldName)]),
		Token: string(values[identityKey(sessionID, fieldToken)]),
		State: models.ParticipantState{HasNominated: nominated, HasVoted: voted},
	}, nil
}

func (s *identityService) Remember(ctx context.Context, sessionID models.ID, id Identity) error {
	if err := checkScope(sessionID); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.DeletePrefix(ctx, identityPrefix(sessionID)); err != nil {
			return err
		}
		if id.Name != "" {
			if err := repo.Set(ctx, identityKey(sessionID, fieldName), []byte(id.Name)); err != nil {
				return err
			}
		}
		if id.Token != "" {
			if err := repo.Set(ctx, identityKey(sessionID, fieldToken), []byte(id.Token)); err != nil {
				return err
			}
		}
		if id.State.HasNominated {
			if err := repo.Set(ctx, identityKey(sessionID, fieldNominated), []byte("1")); err != nil {
				return err
			}
		}
		if id.State.HasVoted {
			if err := repo.Set(ctx, identityKey(sessionID, fieldVoted), []byte("1")); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *identityService) set(ctx context.Context, sessionID models.ID, field string, value []byte) error {
	if err := checkScope(sessionID); err != nil {
		return err
	}
	return s.repo.Set(ctx, identityKey(sessionID, field), value)
}

func (s *identityService) SetName(ctx context.Context, sessionID models.ID, name string) error {
	return s.set(ctx, sessionID, fieldName, []byte(name))
}

func (s *identityService) MarkNominated(ctx context.Context, sessionID models.ID) error {
	return s.set(ctx, sessionID, fieldNominated, []byte("1"))
}

func (s *identityService) MarkVoted(ctx context.Context, sessionID models.ID) error {
	return s.set(ctx, sessionID, fieldVoted, []byte("1"))
}

func (s *identityService) Forget(ctx context.Context, sessionID models.ID) error {
	if err := checkScope(sessionID); err != nil {
		return err
	}
	return s.repo.DeletePrefix(ctx, identityPrefix(sessionID))
}
