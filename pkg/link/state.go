package link

// State represents the connection state of a Conn.
type State int32

// Connection states
const (
	// StateDisconnected means no channel is held.
	StateDisconnected State = iota
	// StateConnecting means an open is in progress.
	StateConnecting
	// StateConnected means the channel is open and the reader task is
	// running.
	StateConnected
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}
