package ports

import (
	"context"
	"time"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// AccountRepository persists user accounts.
type AccountRepository interface {
	// Create inserts a new account. Returns domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail looks an account up by exact email match. Returns
	// domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// ResetTokenRepository persists password reset tokens.
type ResetTokenRepository interface {
	// Issue marks every unused token of the account as used and stores the
	// new one, as a single unit.
	Issue(ctx context.Context, token *domain.PasswordResetToken, now time.Time) error
	// Redeem claims the unused, unexpired token with the given digest and sets
	// the owning account's password digest, as a single unit. Exactly one of
	// any number of concurrent calls with the same digest can succeed; the
	// others get domain.ErrInvalidResetToken.
	Redeem(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) error
}

// AdminRepository backs the admin dashboard.
type AdminRepository interface {
	Stats(ctx context.Context, now time.Time) (*domain.UserStats, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// DeleteUser removes the account and returns its email.
	DeleteUser(ctx context.Context, id string) (string, error)
	// UpdateRole changes the role and returns the account email.
	UpdateRole(ctx context.Context, id, role string) (string, error)
}
