package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/core"
	"github.com/dkeye/camwall/internal/domain"
)

// DefaultNegotiationTimeout bounds a single handshake attempt. A hung
// negotiation is routed into the retry path, not left hanging.
const DefaultNegotiationTimeout = 10 * time.Second

// Options tunes session lifecycle timing. Zero values pick defaults;
// tests compress them.
type Options struct {
	NegotiationTimeout time.Duration
	RetryBase          time.Duration
	RetryCap           time.Duration
}

// SessionRegistry is the authoritative camera-id → session map and the only
// entry point the rest of the dashboard talks to. It guarantees at most one
// live session per camera; each session runs as its own goroutine, so a
// flaky endpoint never delays any other camera.
type SessionRegistry struct {
	negotiator core.Negotiator
	sched      *RetryScheduler
	bus        *stateBus
	timeout    time.Duration

	mu       sync.RWMutex
	sessions map[domain.CameraID]*session
}

func NewSessionRegistry(neg core.Negotiator, opts Options) *SessionRegistry {
	timeout := opts.NegotiationTimeout
	if timeout <= 0 {
		timeout = DefaultNegotiationTimeout
	}
	return &SessionRegistry{
		negotiator: neg,
		sched:      NewRetryScheduler(opts.RetryBase, opts.RetryCap),
		bus:        newStateBus(),
		timeout:    timeout,
		sessions:   make(map[domain.CameraID]*session),
	}
}

// Start begins (or resumes observing) a session for the camera. Idempotent:
// while a session for the id exists, Start returns its snapshot without
// spawning a second negotiation.
func (r *SessionRegistry) Start(cam domain.Camera) SessionSnapshot {
	r.mu.Lock()
	if existing, ok := r.sessions[cam.ID]; ok {
		r.mu.Unlock()
		log.Debug().
			Str("module", "app.registry").
			Str("camera", string(cam.ID)).
			Msg("start: session already running")
		return existing.snapshot()
	}
	s := newSession(cam, r.negotiator, r.sched, r.bus, r.timeout)
	r.sessions[cam.ID] = s
	r.mu.Unlock()

	log.Info().
		Str("module", "app.registry").
		Str("camera", string(cam.ID)).
		Str("endpoint", cam.NegotiationEndpoint).
		Msg("starting session")
	snap := s.snapshot()
	s.announce()
	go s.run()
	return snap
}

// Stop tears the session down: pending retry cancelled, in-flight
// negotiation aborted, transport closed. Terminal; a later Start creates a
// brand-new session with a fresh retry count.
func (r *SessionRegistry) Stop(id domain.CameraID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	log.Info().
		Str("module", "app.registry").
		Str("camera", string(id)).
		Msg("stopping session")
	s.stop()
	return true
}

// RetryNow cancels the pending backoff for a disconnected session and
// renegotiates immediately, with the attempt counter reset to zero.
func (r *SessionRegistry) RetryNow(id domain.CameraID) bool {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	s.requestRetry()
	return true
}

// Snapshot returns the current view of one session.
func (r *SessionRegistry) Snapshot(id domain.CameraID) (SessionSnapshot, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return SessionSnapshot{}, false
	}
	return s.snapshot(), true
}

// List returns snapshots of all sessions, ordered by camera id.
func (r *SessionRegistry) List() []SessionSnapshot {
	r.mu.RLock()
	out := make([]SessionSnapshot, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.snapshot())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count reports how many sessions exist, for wall layout planning.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Subscribe returns a feed of session state transitions and an unsubscribe
// func. Slow consumers lose events rather than blocking session tasks.
func (r *SessionRegistry) Subscribe() (<-chan Transition, func()) {
	return r.bus.subscribe()
}

// Shutdown stops every session and waits for their tasks to exit, bounded
// by ctx.
func (r *SessionRegistry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	all := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[domain.CameraID]*session)
	r.mu.Unlock()

	for _, s := range all {
		s.stop()
	}
	for _, s := range all {
		select {
		case <-s.done:
		case <-ctx.Done():
			log.Warn().Str("module", "app.registry").Msg("shutdown timed out waiting for session tasks")
			return
		}
	}
	log.Info().Str("module", "app.registry").Int("sessions", len(all)).Msg("registry shut down")
}
