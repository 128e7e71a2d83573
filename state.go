package careermentor

// State is the lifecycle state of a Session.
type State int

const (
	// StateIdle waits for the next user message.
	StateIdle State = iota
	// StateAwaitingReply has a completion in flight.
	StateAwaitingReply
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting-reply"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
