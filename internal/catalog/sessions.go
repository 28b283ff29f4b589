package catalog

import (
	"sync"
	"time"
)

// DefaultSessionIdle is how long an unused session is kept. It matches the
// UI's cookie lifetime.
const DefaultSessionIdle = 30 * 24 * time.Hour

// Sessions keeps one Session per browser session id. Sessions never share a
// bundle.
type Sessions struct {
	svc  *Service
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// SessionsOption configures a Sessions registry.
type SessionsOption func(*Sessions)

// WithIdleTimeout sets how long a session may go unused before EvictIdle
// drops it.
func WithIdleTimeout(d time.Duration) SessionsOption {
	return func(r *Sessions) {
		if d > 0 {
			r.idle = d
		}
	}
}

// NewSessions creates an empty registry.
func NewSessions(svc *Service, opts ...SessionsOption) *Sessions {
	r := &Sessions{
		svc:      svc,
		idle:     DefaultSessionIdle,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session for id, creating it on first use, and marks it
// used.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		e = &sessionEntry{session: r.svc.NewSession()}
		r.sessions[id] = e
	}
	e.lastUsed = r.now()
	return e.session
}

// Drop forgets the session for id.
func (r *Sessions) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(id)
}

func (r *Sessions) drop(id string) {
	delete(r.sessions, id)
}

// EvictIdle drops every session unused for longer than the idle timeout and
// returns how many went.
func (r *Sessions) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	evicted := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			r.drop(id)
			evicted++
		}
	}
	return evicted
}

// IdleTimeout returns how long an unused session is kept.
func (r *Sessions) IdleTimeout() time.Duration {
	return r.idle
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
