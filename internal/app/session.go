package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/core"
	"github.com/dkeye/camwall/internal/domain"
)

// session is the lifecycle record for one camera endpoint. A single
// goroutine (run) drives all state transitions, so attempts are naturally
// fenced: a result from a superseded negotiation can never be applied after
// a newer attempt or a stop.
type session struct {
	cam        domain.Camera
	negotiator core.Negotiator
	sched      *RetryScheduler
	bus        *stateBus
	timeout    time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	retryNow chan struct{}

	mu         sync.Mutex
	state      core.SessionState
	retryCount int
	lastErr    *core.SessionError
	handle     core.TransportHandle
	startedAt  time.Time
}

func newSession(cam domain.Camera, neg core.Negotiator, sched *RetryScheduler, bus *stateBus, timeout time.Duration) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		cam:        cam,
		negotiator: neg,
		sched:      sched,
		bus:        bus,
		timeout:    timeout,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		retryNow:   make(chan struct{}, 1),
		state:      core.StateIdle,
		startedAt:  time.Now(),
	}
}

// run is the session task: negotiate, watch connectivity, back off, repeat.
// It exits only when the session context is cancelled by stop or shutdown.
func (s *session) run() {
	defer close(s.done)
	defer s.teardown()

	for {
		if !s.transition(core.StateNegotiating) {
			return
		}
		handle, err := s.negotiateOnce()
		if s.ctx.Err() != nil {
			// Stopped while the handshake was in flight: discard the
			// result, whatever it was.
			if handle != nil {
				handle.Close()
			}
			return
		}
		if err == nil {
			err = s.watch(handle)
			if s.ctx.Err() != nil {
				return
			}
		}
		attempt, ok := s.fail(core.Classify(err))
		if !ok {
			return
		}
		if !s.waitRetry(attempt) {
			return
		}
	}
}

func (s *session) negotiateOnce() (core.TransportHandle, error) {
	attemptID := uuid.NewString()
	nctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	log.Info().
		Str("module", "app.session").
		Str("camera", string(s.cam.ID)).
		Str("attempt", attemptID).
		Msg("negotiating")
	h, err := s.negotiator.Negotiate(nctx, s.cam)
	if err != nil {
		log.Warn().
			Err(err).
			Str("module", "app.session").
			Str("camera", string(s.cam.ID)).
			Str("attempt", attemptID).
			Msg("negotiation failed")
	}
	return h, err
}

// watch consumes the connectivity monitor until the transport drops or the
// session is stopped. The handle is closed on every exit path.
func (s *session) watch(h core.TransportHandle) error {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.handle = nil
		s.mu.Unlock()
		h.Close()
	}()

	mon := h.Monitor()
	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case ev, ok := <-mon.Events():
			if !ok {
				return core.TransportErr(errors.New("connectivity monitor closed"))
			}
			switch ev {
			case core.ConnConnected:
				s.transition(core.StateLive)
			case core.ConnDisconnected:
				return core.TransportErr(errors.New("transport disconnected"))
			case core.ConnFailed:
				return core.TransportErr(errors.New("transport failed"))
			}
		}
	}
}

// waitRetry blocks until the backoff timer fires, a manual retry is
// requested, or the session is stopped. Manual retry resets the counter so
// the next attempt is treated as fresh.
func (s *session) waitRetry(attempt int) bool {
	tok := s.sched.Schedule(s.cam.ID, attempt)
	defer tok.Cancel()
	select {
	case <-s.ctx.Done():
		return false
	case <-tok.C():
		return true
	case <-s.retryNow:
		s.mu.Lock()
		s.retryCount = 0
		s.mu.Unlock()
		log.Info().
			Str("module", "app.session").
			Str("camera", string(s.cam.ID)).
			Msg("manual retry")
		return true
	}
}

// transition applies a state change unless the session is already stopped.
// Entering Live resets the retry counter and clears the last error.
func (s *session) transition(to core.SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == core.StateStopped {
		return false
	}
	if s.state == to {
		return true
	}
	s.state = to
	if to == core.StateLive {
		s.retryCount = 0
		s.lastErr = nil
	}
	s.publishLocked()
	return true
}

// fail records a dropped attempt and returns the backoff attempt number
// (the pre-increment retry count, so the first retry waits the base delay).
func (s *session) fail(serr *core.SessionError) (int, bool) {
	if serr.Kind == core.KindCancelled {
		// Fenced attempt; the run loop exits on its own.
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == core.StateStopped {
		return 0, false
	}
	attempt := s.retryCount
	s.retryCount++
	s.state = core.StateDisconnected
	s.lastErr = serr
	s.publishLocked()
	return attempt, true
}

// stop is the hard cancellation: it marks the session terminal and cancels
// the task context, which aborts any in-flight negotiation, fires no
// further retries and closes the transport on the way out.
func (s *session) stop() {
	s.mu.Lock()
	if s.state != core.StateStopped {
		s.state = core.StateStopped
		s.publishLocked()
	}
	s.mu.Unlock()
	s.cancel()
}

func (s *session) requestRetry() {
	select {
	case s.retryNow <- struct{}{}:
	default:
	}
}

// announce publishes the current (initial) state to subscribers.
func (s *session) announce() {
	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()
}

func (s *session) teardown() {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()
	if h != nil {
		h.Close()
	}
	log.Info().
		Str("module", "app.session").
		Str("camera", string(s.cam.ID)).
		Msg("session task exited")
}

func (s *session) publishLocked() {
	errStr := ""
	if s.lastErr != nil {
		errStr = s.lastErr.Error()
	}
	log.Info().
		Str("module", "app.session").
		Str("camera", string(s.cam.ID)).
		Str("state", s.state.String()).
		Int("retry_count", s.retryCount).
		Msg("state change")
	s.bus.publish(Transition{
		ID:         s.cam.ID,
		State:      s.state,
		RetryCount: s.retryCount,
		Error:      errStr,
		At:         time.Now(),
	})
}

// SessionSnapshot is the read-only view of a session for APIs.
type SessionSnapshot struct {
	ID         domain.CameraID   `json:"id"`
	Name       string            `json:"name"`
	State      core.SessionState `json:"state"`
	RetryCount int               `json:"retryCount"`
	LastError  string            `json:"lastError,omitempty"`
	StartedAt  time.Time         `json:"startedAt"`
}

func (s *session) snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	errStr := ""
	if s.lastErr != nil {
		errStr = s.lastErr.Error()
	}
	return SessionSnapshot{
		ID:         s.cam.ID,
		Name:       s.cam.Name,
		State:      s.state,
		RetryCount: s.retryCount,
		LastError:  errStr,
		StartedAt:  s.startedAt,
	}
}
