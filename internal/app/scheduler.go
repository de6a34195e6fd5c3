package app

import (
	"sync"
	"time"

	"github.com/dkeye/camwall/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRetryBase = 2 * time.Second
	DefaultRetryCap  = 30 * time.Second
)

// RetryScheduler computes reconnect backoff and arms cancellable retry
// timers. Delays are deterministic exponential doubling with a hard cap and
// no jitter; simultaneously failing cameras retry in lockstep on purpose,
// matching the dashboard's observed behavior.
type RetryScheduler struct {
	base time.Duration
	cap  time.Duration
}

func NewRetryScheduler(base, cap time.Duration) *RetryScheduler {
	if base <= 0 {
		base = DefaultRetryBase
	}
	if cap <= 0 {
		cap = DefaultRetryCap
	}
	return &RetryScheduler{base: base, cap: cap}
}

// Delay returns the backoff before retry attempt k: base doubled k times,
// capped.
func (s *RetryScheduler) Delay(attempt int) time.Duration {
	d := s.base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= s.cap {
			return s.cap
		}
	}
	if d > s.cap {
		d = s.cap
	}
	return d
}

// Schedule arms a timer for the given attempt. The token fires on C exactly
// once unless cancelled first.
func (s *RetryScheduler) Schedule(id domain.CameraID, attempt int) *RetryToken {
	delay := s.Delay(attempt)
	t := &RetryToken{fired: make(chan struct{})}
	t.timer = time.AfterFunc(delay, t.fire)
	log.Debug().
		Str("module", "app.scheduler").
		Str("camera", string(id)).
		Int("attempt", attempt).
		Dur("delay", delay).
		Msg("retry scheduled")
	return t
}

// RetryToken owns one outstanding retry timer. A session holds at most one.
type RetryToken struct {
	timer *time.Timer
	fired chan struct{}

	mu        sync.Mutex
	cancelled bool
	done      bool
}

// C is closed when the timer expires. It never closes after Cancel returned.
func (t *RetryToken) C() <-chan struct{} { return t.fired }

func (t *RetryToken) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.done {
		return
	}
	t.done = true
	close(t.fired)
}

// Cancel stops the timer. Idempotent.
func (t *RetryToken) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	t.mu.Unlock()
	t.timer.Stop()
}
