package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a session attempt failed.
type ErrorKind int

const (
	// KindNegotiation covers a failed handshake: endpoint unreachable,
	// submission rejected, malformed answer.
	KindNegotiation ErrorKind = iota
	// KindTransport covers an established transport that dropped.
	KindTransport
	// KindTimeout covers a negotiation that exceeded its deadline.
	KindTimeout
	// KindCancelled marks a superseded attempt. Internal only; never
	// recorded as a session's lastError.
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNegotiation:
		return "negotiation"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindCancelled:
		return "cancelled"
	}
	return "unknown"
}

// SessionError is the only failure type the session state machine records.
// It never escapes the core as a returned error; callers observe it through
// a session snapshot's LastError field.
type SessionError struct {
	Kind ErrorKind
	Err  error
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

func NegotiationErr(err error) *SessionError {
	return &SessionError{Kind: KindNegotiation, Err: err}
}

func TransportErr(err error) *SessionError {
	return &SessionError{Kind: KindTransport, Err: err}
}

// Classify maps an arbitrary attempt error onto the taxonomy. Context
// deadline becomes a timeout, context cancellation marks a fenced attempt,
// anything else is a negotiation failure.
func Classify(err error) *SessionError {
	var serr *SessionError
	if errors.As(err, &serr) {
		return serr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &SessionError{Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &SessionError{Kind: KindCancelled, Err: err}
	}
	return &SessionError{Kind: KindNegotiation, Err: err}
}
