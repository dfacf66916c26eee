package ports

import (
	"context"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// SessionStore is the server-side session registry. Handles are opaque to
// callers.
type SessionStore interface {
	Create(ctx context.Context, snapshot domain.Session) (string, error)
	// Read never fails; ok is false for unknown or expired handles.
	Read(ctx context.Context, handle string) (session *domain.Session, ok bool)
	// Destroy is idempotent.
	Destroy(ctx context.Context, handle string) error
}
