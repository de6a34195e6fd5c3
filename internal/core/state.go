package core

import "fmt"

// SessionState is the observable lifecycle state of one camera session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateNegotiating
	StateLive
	StateDisconnected
	StateFailed
	StateStopped
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateLive:
		return "live"
	case StateDisconnected:
		return "disconnected"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// MarshalText makes session states readable in JSON snapshots.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SessionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "negotiating":
		*s = StateNegotiating
	case "live":
		*s = StateLive
	case "disconnected":
		*s = StateDisconnected
	case "failed":
		*s = StateFailed
	case "stopped":
		*s = StateStopped
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

// ConnState is the reduced connectivity signal of a live transport.
type ConnState int

const (
	ConnConnecting ConnState = iota
	ConnConnected
	ConnDisconnected
	ConnFailed
)

func (c ConnState) String() string {
	switch c {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	case ConnFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether a monitor stops emitting after this state.
func (c ConnState) Terminal() bool {
	return c == ConnDisconnected || c == ConnFailed
}
