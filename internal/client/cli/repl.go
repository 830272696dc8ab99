package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isAdmin() bool
	report(err error)

	Status(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	Session(ctx context.Context, args []string) error

	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Advance(ctx context.Context, args []string) error
	Participants(ctx context.Context, args []string) error
	Links(ctx context.Context, args []string) error
	Invite(ctx context.Context, args []string) error
	Email(ctx context.Context, args []string) error
	Nominations(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Tally(ctx context.Context, args []string) error

	Join(ctx context.Context, args []string) error
	Token(ctx context.Context, args []string) error
	Nominate(ctx context.Context, args []string) error
	Ballot(ctx context.Context, args []string) error
	Pick(ctx context.Context, args []string) error
	None(ctx context.Context, args []string) error
	Vote(ctx context.Context, args []string) error
	Forget(ctx context.Context, args []string) error
}

const (
	participantHelp = "Participant: join [name], token <token>, nominate, ballot, pick <n>..., none, vote, forget"
	sessionHelp     = "Session: (s)tatus, refresh, session <id|current>, login, help, exit"
	adminHelp       = "Admin: create [title], advance, participants, links, invite, email [address...], nominations, delete <id>, tally, logout"
)

// runREPL starts a simple read-eval-print loop for the recognize CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the matching method on a. Unknown commands
// are reported back to the user. The loop exits on EOF, when ctx is done or
// when the user types "exit" or "quit".
//
// Errors returned by command handlers are passed to a.report, which prints
// them according to their category.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("rc %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(sessionHelp)
			printlnFn(participantHelp)
			if a.isAdmin() {
				printlnFn(adminHelp)
			}

		case "s", "status":
			cmdErr = a.Status(ctx, args)
		case "refresh":
			cmdErr = a.Refresh(ctx, args)
		case "session":
			cmdErr = a.Session(ctx, args)

		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "create":
			cmdErr = a.Create(ctx, args)
		case "advance":
			cmdErr = a.Advance(ctx, args)
		case "participants":
			cmdErr = a.Participants(ctx, args)
		case "links":
			cmdErr = a.Links(ctx, args)
		case "invite":
			cmdErr = a.Invite(ctx, args)
		case "email":
			cmdErr = a.Email(ctx, args)
		case "nominations":
			cmdErr = a.Nominations(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "tally":
			cmdErr = a.Tally(ctx, args)

		case "join":
			cmdErr = a.Join(ctx, args)
		case "token":
			cmdErr = a.Token(ctx, args)
		case "nominate", "pitch":
			cmdErr = a.Nominate(ctx, args)
		case "ballot":
			cmdErr = a.Ballot(ctx, args)
		case "pick":
			cmdErr = a.Pick(ctx, args)
		case "none":
			cmdErr = a.None(ctx, args)
		case "vote":
			cmdErr = a.Vote(ctx, args)
		case "forget":
			cmdErr = a.Forget(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.report(cmdErr)
	}
}
