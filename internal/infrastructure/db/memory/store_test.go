package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

func seedUser(t *testing.T, s *Store, id, email string, created time.Time) {
	t.Helper()
	err := s.Create(context.Background(), &domain.User{
		ID: id, Email: email, PasswordHash: "old", Role: domain.RoleUser, CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
}

func TestStore_CreateAndFind(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@example.com", time.Now())

	if err := s.Create(ctx, &domain.User{ID: "u2", Email: "a@example.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := s.FindByEmail(ctx, "A@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("lookup must be exact, got %v", err)
	}

	u, err := s.FindByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	u.PasswordHash = "mutated"
	again, _ := s.FindByEmail(ctx, "a@example.com")
	if again.PasswordHash != "old" {
		t.Fatalf("store leaked an internal pointer")
	}
}

func TestStore_IssueRetiresPreviousTokens(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, s, "u1", "a@example.com", now)

	first := &domain.PasswordResetToken{ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	second := &domain.PasswordResetToken{ID: "t2", UserID: "u1", TokenHash: "h2", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	if err := s.Issue(ctx, first, now); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := s.Issue(ctx, second, now.Add(time.Minute)); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := s.Redeem(ctx, "h1", "new", now.Add(2*time.Minute)); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("older token must be retired, got %v", err)
	}
	if err := s.Redeem(ctx, "h2", "new", now.Add(2*time.Minute)); err != nil {
		t.Fatalf("newest token should redeem: %v", err)
	}
	u, _ := s.FindByEmail(ctx, "a@example.com")
	if u.PasswordHash != "new" {
		t.Fatalf("password not updated")
	}
}

func TestStore_ConcurrentIssueLeavesOneLiveToken(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, s, "u1", "a@example.com", now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hash := string(rune('a' + i))
			tok := &domain.PasswordResetToken{ID: hash, UserID: "u1", TokenHash: hash, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
			if err := s.Issue(ctx, tok, now); err != nil {
				t.Errorf("Issue: %v", err)
			}
		}(i)
	}
	wg.Wait()

	live := 0
	for _, tok := range s.tokens {
		if tok.UserID == "u1" && tok.UsedAt == nil {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("expected one live token, got %d", live)
	}
}

func TestStore_IssueUnknownAccount(t *testing.T) {
	s := NewStore()
	now := time.Now()
	tok := &domain.PasswordResetToken{ID: "t1", UserID: "ghost", TokenHash: "h1", ExpiresAt: now.Add(time.Hour)}
	if err := s.Issue(context.Background(), tok, now); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_RedeemExpiredAndUnknown(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedUser(t, s, "u1", "a@example.com", now)

	tok := &domain.PasswordResetToken{ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	_ = s.Issue(ctx, tok, now)

	if err := s.Redeem(ctx, "h1", "new", now.Add(time.Hour)); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expired token redeemed: %v", err)
	}
	if err := s.Redeem(ctx, "nope", "new", now); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("unknown token redeemed: %v", err)
	}
	u, _ := s.FindByEmail(ctx, "a@example.com")
	if u.PasswordHash != "old" {
		t.Fatalf("failed redemption changed the password")
	}
}

func TestStore_RedeemRace(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()
	seedUser(t, s, "u1", "a@example.com", now)
	_ = s.Issue(ctx, &domain.PasswordResetToken{ID: "t1", UserID: "u1", TokenHash: "h1", ExpiresAt: now.Add(time.Hour)}, now)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Redeem(ctx, "h1", "new", now) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("expected exactly one redemption, got %d", got)
	}
}

func TestStore_Admin(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	seedUser(t, s, "old", "old@example.com", now.AddDate(0, 0, -60))
	seedUser(t, s, "mid", "mid@example.com", now.AddDate(0, 0, -10))
	seedUser(t, s, "new", "new@example.com", now.AddDate(0, 0, -1))
	_ = s.TouchLastLogin(ctx, "mid", now)

	st, _ := s.Stats(ctx, now)
	want := domain.UserStats{TotalUsers: 3, UsersLoggedIn: 1, NewUsersWeek: 1, NewUsersMonth: 2}
	if *st != want {
		t.Fatalf("stats = %+v, want %+v", *st, want)
	}

	users, _ := s.ListUsers(ctx)
	if len(users) != 3 || users[0].ID != "new" || users[2].ID != "old" {
		t.Fatalf("users not newest first: %+v", users)
	}

	email, err := s.UpdateRole(ctx, "mid", domain.RoleAdmin)
	if err != nil || email != "mid@example.com" {
		t.Fatalf("UpdateRole = %q, %v", email, err)
	}
	if _, err := s.UpdateRole(ctx, "ghost", domain.RoleAdmin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := s.DeleteUser(ctx, "old"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.FindByEmail(ctx, "old@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user still present")
	}
	if _, err := s.DeleteUser(ctx, "old"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
