package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CoordinatorFactory builds the coordinator for a new session
type CoordinatorFactory func() *Coordinator

type sessionEntry struct {
	coordinator *Coordinator
	lastSeen    time.Time
}

// SessionRegistry maps session ids to their coordinators
type SessionRegistry struct {
	factory CoordinatorFactory
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	closed   bool
}

// NewSessionRegistry creates a registry whose idle sessions expire after ttl
func NewSessionRegistry(factory CoordinatorFactory, ttl time.Duration, logger *slog.Logger) *SessionRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRegistry{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns the coordinator for id, creating it on first use
func (r *SessionRegistry) Get(id string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		entry = &sessionEntry{coordinator: r.factory()}
		if r.closed {
			entry.coordinator.Controller().Close()
		}
		r.sessions[id] = entry
		r.logger.Debug("session started", "session", id)
	}
	entry.lastSeen = r.now()
	return entry.coordinator
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were removed. Sessions with a request in flight are kept.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) && !entry.coordinator.Controller().Busy() {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("expired idle sessions", "count", removed)
	}
	return removed
}

// Run sweeps on every interval until ctx is cancelled
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Wait blocks until every session's in-flight requests have settled
func (r *SessionRegistry) Wait() {
	for _, c := range r.controllers(false) {
		c.Wait()
	}
}

// Close stops every session from submitting and waits for in-flight
// requests. Sessions created afterwards start closed.
func (r *SessionRegistry) Close() {
	for _, c := range r.controllers(true) {
		c.Close()
	}
}

func (r *SessionRegistry) controllers(closing bool) []*ForecastController {
	r.mu.Lock()
	defer r.mu.Unlock()

	if closing {
		r.closed = true
	}
	out := make([]*ForecastController, 0, len(r.sessions))
	for _, entry := range r.sessions {
		out = append(out, entry.coordinator.Controller())
	}
	return out
}
