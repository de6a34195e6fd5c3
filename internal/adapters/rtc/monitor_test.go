package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/camwall/internal/core"
)

func TestConnMonitorDeliversInOrder(t *testing.T) {
	m := newConnMonitor()
	m.push(core.ConnConnecting)
	m.push(core.ConnConnected)
	m.push(core.ConnDisconnected)

	assert.Equal(t, core.ConnConnecting, <-m.Events())
	assert.Equal(t, core.ConnConnected, <-m.Events())
	assert.Equal(t, core.ConnDisconnected, <-m.Events())
}

func TestConnMonitorGoesQuietAfterTerminal(t *testing.T) {
	m := newConnMonitor()
	m.push(core.ConnFailed)
	m.push(core.ConnConnected) // after terminal: dropped

	assert.Equal(t, core.ConnFailed, <-m.Events())
	select {
	case ev := <-m.Events():
		t.Fatalf("unexpected event after terminal state: %s", ev)
	default:
	}
}

func TestConnMonitorStop(t *testing.T) {
	m := newConnMonitor()
	m.push(core.ConnConnecting)
	m.Stop()
	require.NotPanics(t, m.Stop, "stop is idempotent")
	m.push(core.ConnConnected) // after stop: dropped, no panic

	// Buffered event written before Stop is still readable, then the
	// stream ends.
	assert.Equal(t, core.ConnConnecting, <-m.Events())
	_, ok := <-m.Events()
	assert.False(t, ok, "events channel must be closed after stop")
}
