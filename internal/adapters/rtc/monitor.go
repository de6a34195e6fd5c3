package rtc

import (
	"sync"

	"github.com/dkeye/camwall/internal/core"
)

// connMonitor reduces pion connection-state callbacks to the small
// core.ConnState signal, delivered in callback order. After the first
// terminal state it goes quiet; Stop guarantees nothing is delivered after
// the transport is closed.
type connMonitor struct {
	events chan core.ConnState

	mu       sync.Mutex
	stopped  bool
	terminal bool
}

func newConnMonitor() *connMonitor {
	// Connection state changes are few (connecting, connected, one
	// terminal); the buffer keeps pion callbacks from ever blocking.
	return &connMonitor{events: make(chan core.ConnState, 8)}
}

func (m *connMonitor) push(ev core.ConnState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.terminal {
		return
	}
	if ev.Terminal() {
		m.terminal = true
	}
	select {
	case m.events <- ev:
	default:
	}
}

func (m *connMonitor) Events() <-chan core.ConnState { return m.events }

// Stop unsubscribes the monitor. Idempotent; the events channel is closed
// so a pending receive observes the end of the stream.
func (m *connMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	close(m.events)
}
