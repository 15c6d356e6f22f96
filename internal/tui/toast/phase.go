package toast

// Phase is a toast's lifecycle state.
type Phase int

const (
	// PhaseEntering is the state of a toast that has not been painted yet.
	PhaseEntering Phase = iota
	// PhaseVisible toasts are fully interactive and run a dismissal timer.
	PhaseVisible
	// PhaseDismissing toasts wait out the exit delay and accept no input.
	PhaseDismissing
	// PhaseRemoved is terminal: removal has been requested from the broadcaster.
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseVisible:
		return "visible"
	case PhaseDismissing:
		return "dismissing"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

type event int

const (
	eventEnterElapsed event = iota
	eventDurationElapsed
	eventDismissRequested
	eventExitElapsed
)

func (e event) String() string {
	switch e {
	case eventEnterElapsed:
		return "enter-elapsed"
	case eventDurationElapsed:
		return "duration-elapsed"
	case eventDismissRequested:
		return "dismiss-requested"
	case eventExitElapsed:
		return "exit-elapsed"
	default:
		return "unknown"
	}
}

// transitions is the complete lifecycle table. Any (phase, event) pair not
// listed is ignored, which makes late or duplicate timer callbacks harmless.
var transitions = map[Phase]map[event]Phase{
	PhaseEntering: {
		eventEnterElapsed: PhaseVisible,
	},
	PhaseVisible: {
		eventDurationElapsed:  PhaseDismissing,
		eventDismissRequested: PhaseDismissing,
	},
	PhaseDismissing: {
		eventExitElapsed: PhaseRemoved,
	},
}

func next(p Phase, e event) (Phase, bool) {
	to, ok := transitions[p][e]
	return to, ok
}
