package core

import (
	"context"

	"github.com/dkeye/camwall/internal/domain"
)

// Monitor delivers connectivity changes for one transport, in the order the
// underlying signal changed. After a terminal state (disconnected/failed)
// or Stop, no further event is delivered and the channel is eventually
// closed.
type Monitor interface {
	Events() <-chan ConnState
	Stop()
}

// TransportHandle owns the live media transport produced by one successful
// negotiation. Exactly one Close per handle; Close also stops the monitor.
type TransportHandle interface {
	Monitor() Monitor
	Close()
}

// Negotiator performs the one-shot offer/answer handshake with a camera's
// negotiation endpoint. A single attempt, no retry: any failure is returned
// as is and the retry loop above decides what happens next. The returned
// handle is attached but not yet guaranteed connected; connectivity is
// confirmed asynchronously through its Monitor.
type Negotiator interface {
	Negotiate(ctx context.Context, cam domain.Camera) (TransportHandle, error)
}
