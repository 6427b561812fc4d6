package confirm

// State is the lifecycle state of a confirmation dialog.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateConfirming
	StateCancelling
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateConfirming:
		return "confirming"
	case StateCancelling:
		return "cancelling"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome describes how a dialog was closed.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeCancelled
	OutcomeClosed
	OutcomeFailed
)

// String returns a human-readable outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeClosed:
		return "closed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
