// Package memory is an in-process credential store with the same semantics
// as the Postgres adapter. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// Store implements ports.AccountRepository, ports.ResetTokenRepository and
// ports.AdminRepository behind a single lock, so every operation is atomic.
type Store struct {
	mu      sync.Mutex
	users   map[string]*domain.User // by id
	byEmail map[string]string       // email -> id
	tokens  map[string]*domain.PasswordResetToken
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]*domain.PasswordResetToken),
	}
}

func (s *Store) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	cp := *u
	s.users[u.ID] = &cp
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	t := at
	u.LastLoginAt = &t
	return nil
}

func (s *Store) Issue(_ context.Context, t *domain.PasswordResetToken, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range s.tokens {
		if existing.UserID == t.UserID && existing.UsedAt == nil {
			used := now
			existing.UsedAt = &used
		}
	}
	cp := *t
	s.tokens[t.TokenHash] = &cp
	return nil
}

func (s *Store) Redeem(_ context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenHash]
	if !ok || !t.Redeemable(now) {
		return domain.ErrInvalidResetToken
	}
	u, ok := s.users[t.UserID]
	if !ok {
		return domain.ErrInvalidResetToken
	}
	used := now
	t.UsedAt = &used
	u.PasswordHash = newPasswordHash
	return nil
}

func (s *Store) Stats(_ context.Context, now time.Time) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	var st domain.UserStats
	for _, u := range s.users {
		st.TotalUsers++
		if u.EmailVerifiedAt != nil {
			st.VerifiedUsers++
		}
		if u.LastLoginAt != nil {
			st.UsersLoggedIn++
		}
		if u.CreatedAt.After(weekAgo) {
			st.NewUsersWeek++
		}
		if u.CreatedAt.After(monthAgo) {
			st.NewUsersMonth++
		}
	}
	return &st, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.byEmail, u.Email)
	for hash, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, hash)
		}
	}
	return u.Email, nil
}

func (s *Store) UpdateRole(_ context.Context, id, role string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	u.Role = role
	return u.Email, nil
}

// Ping satisfies the readiness checker.
func (s *Store) Ping(context.Context) error { return nil }
