// Package session holds per-browser-session state in memory. Nothing here is
// durable: a process restart logs every visitor out and forgets every
// captured location, which is exactly the lifetime the product wants.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/auth"
	"github.com/gasfinder/gasfinder/internal/viewstate"
)

// CookieName is the session cookie.
const CookieName = "gasfinder_session"

// Session is one visitor's state: their view-state coordinator and, after
// sign-up, their auth session.
type Session struct {
	ID          string
	Coordinator *viewstate.Coordinator

	mu       sync.Mutex
	authSess *auth.Session
	lastSeen time.Time
}

// SetAuth stores the auth session issued at sign-up.
func (s *Session) SetAuth(a *auth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authSess = a
}

// Auth returns the auth session, or nil before sign-up.
func (s *Session) Auth() *auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authSess
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// StoreConfig holds configuration for the session store.
type StoreConfig struct {
	// Fetcher is handed to each new session's coordinator.
	Fetcher viewstate.Fetcher

	// TTL is how long an idle session survives (default: 30m).
	TTL time.Duration

	// SweepInterval is how often the janitor runs (default: 5m).
	SweepInterval time.Duration

	Logger zerolog.Logger
}

// Store is an in-memory session registry keyed by opaque cookie IDs.
type Store struct {
	fetcher       viewstate.Fetcher
	ttl           time.Duration
	sweepInterval time.Duration
	logger        zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a new session store.
func NewStore(cfg StoreConfig) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	sweep := cfg.SweepInterval
	if sweep == 0 {
		sweep = 5 * time.Minute
	}

	return &Store{
		fetcher:       cfg.Fetcher,
		ttl:           ttl,
		sweepInterval: sweep,
		logger:        cfg.Logger,
		sessions:      make(map[string]*Session),
	}
}

// Create makes a new session with a fresh coordinator.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:          uuid.New().String(),
		Coordinator: viewstate.NewCoordinator(s.fetcher, s.logger),
		lastSeen:    time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for an ID, refreshing its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if ok {
		sess.touch(time.Now())
	}
	return sess, ok
}

// Count returns the number of live sessions, for health reporting.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor launches a background goroutine that sweeps idle sessions
// until ctx is cancelled. It returns immediately.
func (s *Store) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug().
			Int("removed", removed).
			Int("remaining", len(s.sessions)).
			Msg("swept idle sessions")
	}
}
