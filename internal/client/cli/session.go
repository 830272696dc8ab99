package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

func (a *App) resetBallot() {
	a.ballot.Reset()
	a.candidates = nil
}

// Status prints the cached session and what the participant sees in it.
func (a *App) Status(ctx context.Context, _ []string) error {
	s := a.sessions.Snapshot()
	if s == nil {
		printlnFn(models.ViewNoSession.Message())
		return nil
	}

	printlnFn(fmt.Sprintf("Session #%s %q", s.ID, s.Title))
	printlnFn("Status:", s.Phase.Status())
	if s.MeetingDate != "" {
		printlnFn("Meeting date:", s.MeetingDate)
	}
	if s.RecognitionPeriodStart != "" || s.RecognitionPeriodEnd != "" {
		printlnFn("Recognition period:", s.RecognitionPeriodStart, "-", s.RecognitionPeriodEnd)
	}
	if label := s.Phase.AdvanceLabel(); a.isAdmin() && label != "" {
		printlnFn("Next admin action (advance):", label)
	}

	id, err := a.participant.Identity(ctx, s.ID)
	if err != nil {
		return err
	}
	if id.Known() {
		printlnFn("You are:", id.Name)
	}

	cands, err := a.participant.Candidates(ctx, s)
	if err != nil {
		return err
	}
	a.setCandidates(cands)

	view, err := a.participant.View(ctx, s, len(cands))
	if err != nil {
		return err
	}
	printlnFn(view.Message())
	return nil
}

// Refresh re-fetches the session now instead of waiting for the watcher.
func (a *App) Refresh(ctx context.Context, args []string) error {
	prevID := a.sessions.SessionID()
	s, err := a.sessions.Refresh(ctx)
	if errors.Is(err, client.ErrNoSession) {
		a.resetBallot()
		printlnFn(models.ViewNoSession.Message())
		return nil
	}
	if err != nil {
		return err
	}
	if s.ID != prevID {
		a.resetBallot()
	}
	return a.Status(ctx, args)
}

// Session switches to the session with the given id, or back to the
// backend's current session with "current".
func (a *App) Session(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: session <id|current>")
		return nil
	}
	id := models.ID(args[0])
	if strings.EqualFold(args[0], "current") {
		id = ""
	}

	a.resetBallot()
	_, err := a.sessions.Switch(ctx, id)
	a.startWatcher(ctx)
	if errors.Is(err, client.ErrNoSession) {
		printlnFn(models.ViewNoSession.Message())
		return nil
	}
	if err != nil {
		return err
	}
	return a.Status(ctx, nil)
}

// follow moves to sessionID when an enrollment points at another session.
func (a *App) follow(ctx context.Context, s *models.Session) error {
	if s == nil || s.ID == a.sessions.SessionID() {
		return nil
	}
	a.resetBallot()
	_, err := a.sessions.Switch(ctx, s.ID)
	a.startWatcher(ctx)
	return err
}
