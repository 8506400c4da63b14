package tasks

// State is the native TASK_STATE value
type State int32

const (
	StateUnknown  State = 0
	StateDisabled State = 1
	StateQueued   State = 2
	StateReady    State = 3
	StateRunning  State = 4
)

// String maps the state to its table text. Values outside the known set
// are reported as "unknown".
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateQueued:
		return "queued"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}
