package ports

import (
	"context"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	SessionHandle string
	User          *domain.User
}

// ForgotPasswordResult is what the caller learns from a reset request.
// DevLink is only populated when the service runs with development links enabled
// and an account matched.
type ForgotPasswordResult struct {
	DevLink string
}

// AuthService exposes the account and credential lifecycle operations.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionHandle string) error
	WhoAmI(ctx context.Context, sessionHandle string) (*domain.Session, bool)
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AdminService exposes the admin dashboard operations. actorID is the id
// of the admin performing the call.
type AdminService interface {
	Stats(ctx context.Context) (*domain.UserStats, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) (string, error)
	ChangeRole(ctx context.Context, actorID, userID, role string) (string, error)
}
