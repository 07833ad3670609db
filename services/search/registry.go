package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"lokai/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("search session not found")

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry owns the open sessions and expires the idle ones.
type Registry struct {
	deps   Dependencies
	idle   time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(deps Dependencies, idle time.Duration) *Registry {
	return &Registry{
		deps:     deps,
		idle:     idle,
		logger:   deps.Logger.With(zap.String("component", "search-registry")),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create opens a session. The caller loads it.
func (r *Registry) Create(opts Options) *Session {
	s := NewSession(uuid.NewString(), r.deps, opts)

	r.mu.Lock()
	r.sessions[s.ID()] = &entry{session: s, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	utils.ActiveSessions.Set(float64(n))
	r.logger.Debug("search session opened", zap.String("session", s.ID()))
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Delete closes and forgets the session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	utils.ActiveSessions.Set(float64(n))
	return nil
}

// Sweep closes sessions idle for longer than the idle timeout and returns
// how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var expired []*Session
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	utils.ActiveSessions.Set(float64(n))
	if len(expired) > 0 {
		r.logger.Info("expired idle search sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
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

// CloseAll closes every session, at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
	utils.ActiveSessions.Set(0)
}
