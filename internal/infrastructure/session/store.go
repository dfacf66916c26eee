// Package session keeps login sessions in process memory and carries their
// handles in a signed browser cookie.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api/metrics"
	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

const defaultJanitorInterval = 10 * time.Minute

// MemoryStore implements ports.SessionStore. Handles come from the token
// issuer, so they are unguessable and 64 hex characters long.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	issuer   ports.TokenIssuer
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(issuer ports.TokenIssuer, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = domain.SessionTTL
	}
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		issuer:   issuer,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, snapshot domain.Session) (string, error) {
	now := s.now()
	snapshot.CreatedAt = now
	snapshot.ExpiresAt = now.Add(s.ttl)

	handle := s.issuer.Issue()

	s.mu.Lock()
	s.sessions[handle] = snapshot
	s.mu.Unlock()
	return handle, nil
}

func (s *MemoryStore) Read(_ context.Context, handle string) (*domain.Session, bool) {
	if handle == "" {
		return nil, false
	}
	s.mu.RLock()
	sess, ok := s.sessions[handle]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, handle)
		s.mu.Unlock()
		return nil, false
	}
	return &sess, true
}

func (s *MemoryStore) Destroy(_ context.Context, handle string) error {
	s.mu.Lock()
	delete(s.sessions, handle)
	s.mu.Unlock()
	return nil
}

// Purge drops every expired session and reports how many were removed.
func (s *MemoryStore) Purge() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for handle, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, handle)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Purge(); n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired sessions")
			}
			metrics.SessionsActive.Set(float64(s.Len()))
		}
	}
}
