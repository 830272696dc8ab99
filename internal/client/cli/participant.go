package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/client/services"
)

// Join enrolls the participant by name in the current session.
func (a *App) Join(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = getSimpleText(a.reader, "Your name", a.out)
		if err != nil {
			return err
		}
	}
	e, err := a.participant.Join(ctx, name)
	if err != nil {
		return err
	}
	if err := a.follow(ctx, e.Session); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Welcome, %s!", e.Participant.Name))
	return a.Status(ctx, nil)
}

// Token adopts the identity behind an invitation token.
func (a *App) Token(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		token, err = getSimpleText(a.reader, "Invitation token", a.out)
		if err != nil {
			return err
		}
	}
	e, err := a.participant.UseToken(ctx, token)
	if err != nil {
		return err
	}
	if err := a.follow(ctx, e.Session); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Welcome, %s!", e.Participant.Name))
	return a.Status(ctx, nil)
}

// Nominate collects and submits the participant's pitch.
func (a *App) Nominate(ctx context.Context, _ []string) error {
	s := a.sessions.Snapshot()
	if s == nil {
		return client.ErrNoSession
	}
	if s.Phase != models.PhaseNomination {
		return services.ErrNominationsClosed
	}
	id, err := a.participant.Identity(ctx, s.ID)
	if err != nil {
		return err
	}
	if !id.Known() {
		return services.ErrNotJoined
	}
	if id.State.HasNominated {
		return services.ErrAlreadyNominated
	}

	printlnFn(models.ViewPitchForm.Message())
	nominee, err := getSimpleText(a.reader, "Who are you nominating? (blank for yourself)", a.out)
	if err != nil {
		return err
	}
	reason, err := getMultiline(a.reader, "Why should they be recognized?", a.out)
	if err != nil {
		return err
	}

	if _, err := a.participant.Nominate(ctx, s, nominee, reason); err != nil {
		return err
	}
	printlnFn("Nomination submitted.")
	printlnFn(models.ViewPitchDone.Message())
	return nil
}

func (a *App) printBallot() {
	picks := a.ballot.Picks()
	for i, n := range a.candidates {
		mark := " "
		for _, id := range picks {
			if id == n.ID {
				mark = "x"
			}
		}
		line := fmt.Sprintf("[%s] %d. %s", mark, i+1, n.NomineeName)
		if n.Reason != "" {
			line += ": " + n.Reason
		}
		printlnFn(line)
	}
	mark := " "
	if a.ballot.None() {
		mark = "x"
	}
	printlnFn(fmt.Sprintf("[%s] None of the Above", mark))
}

// Ballot loads the candidates and shows the ballot.
func (a *App) Ballot(ctx context.Context, _ []string) error {
	s := a.sessions.Snapshot()
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
	if view == models.ViewBallot {
		a.printBallot()
		printlnFn("Use pick <n>... to toggle candidates, none for None of the Above, then vote.")
	}
	return nil
}

// setCandidates replaces the ballot candidates, clearing picks when the
// list changed.
func (a *App) setCandidates(cands []models.Nomination) {
	if !sameCandidates(a.candidates, cands) {
		a.ballot.Reset()
	}
	a.candidates = cands
}

func sameCandidates(a, b []models.Nomination) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// Pick toggles the numbered candidates of the last shown ballot.
func (a *App) Pick(_ context.Context, args []string) error {
	if len(a.candidates) == 0 {
		printlnFn("Load the ballot first (ballot).")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: pick <n>...")
		return nil
	}
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(a.candidates) {
			printlnFn(fmt.Sprintf("No candidate %q.", arg))
			continue
		}
		if !a.ballot.Toggle(a.candidates[n-1].ID) {
			printlnFn(fmt.Sprintf("You can pick at most %d candidates.", models.MaxBallotPicks))
		}
	}
	a.printBallot()
	return nil
}

// None toggles "None of the Above".
func (a *App) None(_ context.Context, _ []string) error {
	a.ballot.ToggleNone()
	if len(a.candidates) > 0 {
		a.printBallot()
	}
	return nil
}

// Vote submits the ballot.
func (a *App) Vote(ctx context.Context, _ []string) error {
	if err := a.participant.Vote(ctx, a.sessions.Snapshot(), &a.ballot); err != nil {
		return err
	}
	a.candidates = nil
	printlnFn(models.ViewVoteDone.Message())
	return nil
}

// Forget drops the participant identity stored for the current session.
func (a *App) Forget(ctx context.Context, _ []string) error {
	id := a.sessions.SessionID()
	if id == "" {
		return client.ErrNoSession
	}
	if err := a.participant.Forget(ctx, id); err != nil {
		return err
	}
	a.resetBallot()
	printlnFn("Forgot your identity for session #" + id.String())
	return nil
}
