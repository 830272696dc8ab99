package models

// View identifies which participant screen is shown.
type View string

const (
	ViewWaiting       View = "waiting"
	ViewPitchForm     View = "pitch_form"
	ViewPitchDone     View = "pitch_done"
	ViewBallot        View = "ballot"
	ViewNoNominations View = "no_nominations"
	ViewVoteDone      View = "vote_done"
	ViewResults       View = "results"
	ViewClosed        View = "closed"
	ViewNoSession     View = "no_session"
)

// ParticipantView selects the participant screen for a phase given the
// locally tracked state and the number of nominations loaded for the ballot.
func ParticipantView(s *Session, state ParticipantState, nominations int) View {
	if s == nil {
		return ViewNoSession
	}
	switch s.Phase {
	case PhaseSetup:
		return ViewWaiting
	case PhaseNomination:
		if state.HasNominated {
			return ViewPitchDone
		}
		return ViewPitchForm
	case PhaseVoting:
		if state.HasVoted {
			return ViewVoteDone
		}
		if nominations == 0 {
			return ViewNoNominations
		}
		return ViewBallot
	case PhaseResults:
		return ViewResults
	default:
		return ViewClosed
	}
}

// Message is the static text shown for views that carry no form.
func (v View) Message() string {
	switch v {
	case ViewWaiting:
		return "The session is being set up. Please wait for nominations to open."
	case ViewPitchForm:
		return "Pitch Phase: tell us why you should be recognized!"
	case ViewPitchDone:
		return "Please wait for all nominations to come in. You will vote right here when the voting phase starts."
	case ViewBallot:
		return `Select up to 3 candidates OR select "None of the Above".`
	case ViewNoNominations:
		return "No nominations were submitted for this session."
	case ViewVoteDone:
		return "Thank you! Your vote has been recorded."
	case ViewResults:
		return "Voting has ended. Results will be announced in the meeting."
	case ViewClosed:
		return "This session has ended. Thank you for participating!"
	default:
		return "No active session."
	}
}
