package types

// SessionStatus is the lifecycle state of a betting session.
type SessionStatus int

const (
	StatusIdle SessionStatus = iota
	StatusRunning
	StatusStopped
)

func (s SessionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its name in JSON.
func (s SessionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
