package app

import (
	"sync"
	"time"

	"github.com/dkeye/camwall/internal/core"
	"github.com/dkeye/camwall/internal/domain"
)

// Transition is one observed session state change, as delivered to
// subscribers (wall, PiP and detail views all render from this feed).
type Transition struct {
	ID         domain.CameraID   `json:"id"`
	State      core.SessionState `json:"state"`
	RetryCount int               `json:"retryCount"`
	Error      string            `json:"error,omitempty"`
	At         time.Time         `json:"at"`
}

// stateBus fans transitions out to subscribers. Delivery is best-effort:
// a subscriber that stops draining loses events rather than stalling the
// session tasks.
type stateBus struct {
	mu   sync.Mutex
	subs map[int]chan Transition
	next int
}

func newStateBus() *stateBus {
	return &stateBus{subs: make(map[int]chan Transition)}
}

func (b *stateBus) subscribe() (<-chan Transition, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Transition, 32)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *stateBus) publish(t Transition) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- t:
		default:
		}
	}
}
