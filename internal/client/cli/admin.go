package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recognize/internal/client/client"
	"github.com/dmitrijs2005/recognize/internal/client/models"
	"github.com/dmitrijs2005/recognize/internal/client/services"
)

// Login prompts for the admin password and verifies it with the backend.
// The password is kept in memory only.
func (a *App) Login(ctx context.Context, _ []string) error {
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	if err := a.admin.Login(ctx, password); err != nil {
		return err
	}
	printlnFn("Logged in as admin.")
	return nil
}

// Logout drops the admin password. Participant identity is kept.
func (a *App) Logout(_ context.Context, _ []string) error {
	a.admin.Logout()
	printlnFn("Logged out.")
	return nil
}

// Create starts a new session. The title may be given inline.
func (a *App) Create(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return client.ErrNotLoggedIn
	}
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		title, err = getSimpleText(a.reader, fmt.Sprintf("Session title (blank for %q)", models.DefaultSessionTitle), a.out)
		if err != nil {
			return err
		}
	}
	date, err := getSimpleText(a.reader, "Meeting date (YYYY-MM-DD, optional)", a.out)
	if err != nil {
		return err
	}

	s, err := a.sessions.Create(ctx, title, date)
	if err != nil {
		return err
	}
	a.resetBallot()
	a.startWatcher(ctx)
	printlnFn(fmt.Sprintf("Created session #%s %q (%s)", s.ID, s.Title, s.Phase.Status()))
	return nil
}

// Advance moves the session to its next phase.
func (a *App) Advance(ctx context.Context, _ []string) error {
	cur := a.sessions.Snapshot()
	if cur == nil {
		return client.ErrNoSession
	}
	s, err := a.sessions.Advance(ctx)
	if errors.Is(err, services.ErrNoTransition) {
		printlnFn("The session is closed; there is no next phase.")
		return nil
	}
	if err != nil {
		return err
	}
	a.resetBallot()
	printlnFn(fmt.Sprintf("%s: %s", cur.Phase.AdvanceLabel(), s.Phase.Status()))
	return nil
}

func progress(done bool) string {
	if done {
		return "yes"
	}
	return "-"
}

func (a *App) Participants(ctx context.Context, _ []string) error {
	ps, err := a.admin.Participants(ctx)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		printlnFn("No participants yet. Use invite to add some.")
		return nil
	}
	printlnFn(fmt.Sprintf("%-32s %-20s %-9s %s", "EMAIL", "NAME", "NOMINATED", "VOTED"))
	for _, p := range ps {
		printlnFn(fmt.Sprintf("%-32s %-20s %-9s %s", p.Email, p.Name, progress(p.HasNominated), progress(p.HasVoted)))
	}
	return nil
}

// Links prints every participant's personal vote link.
func (a *App) Links(ctx context.Context, _ []string) error {
	links, err := a.admin.VoteLinks(ctx, a.config.VoteOrigin)
	if err != nil {
		return err
	}
	for _, l := range links {
		printlnFn(fmt.Sprintf("%-32s %s", l.Email, l.URL))
	}
	return nil
}

// Invite adds participants from addresses given inline or typed in.
func (a *App) Invite(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return client.ErrNotLoggedIn
	}
	raw := strings.Join(args, " ")
	if raw == "" {
		var err error
		raw, err = getMultiline(a.reader, "Enter participant e-mails (comma or newline separated)", a.out)
		if err != nil {
			return err
		}
	}
	msg, err := a.admin.Invite(ctx, raw)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// Email sends invitations to the given addresses, or to everyone.
func (a *App) Email(ctx context.Context, args []string) error {
	sent, err := a.admin.SendInvites(ctx, models.ParseEmails(strings.Join(args, ",")))
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Sent %d invitation(s).", sent))
	return nil
}

func (a *App) Nominations(ctx context.Context, _ []string) error {
	list, err := a.admin.Nominations(ctx, a.sessions.SessionID())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No nominations yet.")
		return nil
	}
	for _, n := range list {
		printlnFn(fmt.Sprintf("#%s %s (by %s): %s", n.ID, n.NomineeName, n.NominatorName, n.Reason))
	}
	return nil
}

// Delete removes a nomination while nominations are open.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <nomination id>")
		return nil
	}
	id := models.ID(strings.TrimPrefix(args[0], "#"))
	if err := a.admin.DeleteNomination(ctx, a.sessions.Snapshot(), id); err != nil {
		return err
	}
	printlnFn("Deleted nomination #" + id.String())
	return nil
}

// Tally prints nominations per nominee, most first.
func (a *App) Tally(ctx context.Context, _ []string) error {
	if !a.isAdmin() {
		return client.ErrNotLoggedIn
	}
	counts, err := a.admin.Tally(ctx, a.sessions.SessionID())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		printlnFn("No nominations yet.")
		return nil
	}
	for i, c := range counts {
		printlnFn(fmt.Sprintf("%2d. %-24s %d", i+1, c.NomineeName, c.Count))
	}
	return nil
}
