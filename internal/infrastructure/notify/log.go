// Package notify delivers password reset links. Each sink implements
// ports.ResetNotifier.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes the reset link to the log instead of sending mail.
// It is the default for local runs.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, email, resetLink string) error {
	n.log.Info().Str("email", email).Str("reset_link", resetLink).Msg("password reset requested")
	return nil
}
