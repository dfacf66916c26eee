package session

import (
	"context"
	"testing"
	"time"

	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/pkg/token"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(token.NewIssuer(), domain.SessionTTL)
	s.now = clock.Now
	return s, clock
}

func TestMemoryStore_CreateRead(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	handle, err := s.Create(ctx, domain.Session{UserID: "u1", Email: "a@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(handle) != 64 {
		t.Fatalf("unexpected handle length %d", len(handle))
	}

	got, ok := s.Read(ctx, handle)
	if !ok {
		t.Fatalf("session not found")
	}
	if got.UserID != "u1" || got.Email != "a@example.com" || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected snapshot %+v", got)
	}

	if _, ok := s.Read(ctx, "unknown"); ok {
		t.Fatalf("unknown handle resolved")
	}
	if _, ok := s.Read(ctx, ""); ok {
		t.Fatalf("empty handle resolved")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	handle, _ := s.Create(ctx, domain.Session{UserID: "u1"})

	clock.Advance(domain.SessionTTL - time.Second)
	if _, ok := s.Read(ctx, handle); !ok {
		t.Fatalf("session expired early")
	}

	clock.Advance(time.Second)
	if _, ok := s.Read(ctx, handle); ok {
		t.Fatalf("session outlived its ttl")
	}
	if s.Len() != 0 {
		t.Fatalf("expired session not removed on read")
	}
}

func TestMemoryStore_DestroyIsIdempotent(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	handle, _ := s.Create(ctx, domain.Session{UserID: "u1"})

	if err := s.Destroy(ctx, handle); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := s.Destroy(ctx, handle); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
	if _, ok := s.Read(ctx, handle); ok {
		t.Fatalf("destroyed session still readable")
	}
}

func TestMemoryStore_Purge(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	_, _ = s.Create(ctx, domain.Session{UserID: "old"})
	clock.Advance(12 * time.Hour)
	fresh, _ := s.Create(ctx, domain.Session{UserID: "fresh"})
	clock.Advance(12 * time.Hour)

	if n := s.Purge(); n != 1 {
		t.Fatalf("expected 1 purged, got %d", n)
	}
	if _, ok := s.Read(ctx, fresh); !ok {
		t.Fatalf("live session purged")
	}
}
