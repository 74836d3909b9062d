package session

// Phase is the controller's lifecycle state
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhaseResolving
	PhaseUnloading
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseResolving:
		return "resolving"
	case PhaseUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// validTransitions is the controller's state machine
// Loading may fall through to Unloading on a load failure, and may be cut
// short to Resolving by a quit
var validTransitions = map[Phase][]Phase{
	PhaseIdle:      {PhaseLoading},
	PhaseLoading:   {PhasePlaying, PhaseResolving, PhaseUnloading},
	PhasePlaying:   {PhaseResolving},
	PhaseResolving: {PhaseUnloading},
	PhaseUnloading: {PhaseLoading, PhaseIdle},
}

// CanTransition checks if a phase transition is valid
func CanTransition(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
