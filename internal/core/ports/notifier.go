package ports

import "context"

// ResetNotifier delivers password reset links to account owners.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

// ResetDispatcher hands reset notifications to background workers. Enqueue
// must return without waiting for delivery.
type ResetDispatcher interface {
	Enqueue(job ResetNotification) bool
}

// ResetNotification is one queued reset email.
type ResetNotification struct {
	Email string
	Link  string
}
