// Package cli provides the interactive recognize command-line client.
//
// It wires configuration, the local identity store, the backend client and
// the services into a REPL that plays both sides of a recognition round:
//
//   - Admin: login/logout, create a session, advance its phase, manage
//     participants and invitations, moderate nominations, show the tally.
//   - Participant: join by name or invitation token, submit a pitch, fill
//     in and submit the ballot.
//
// A background watcher polls the session and prints phase changes until the
// session is closed. The REPL is started via App.Run(ctx), which blocks
// until the user exits. See App, runREPL and Watch for details.
package cli
