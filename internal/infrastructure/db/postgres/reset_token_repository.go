package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// ResetTokenRepository implements ports.ResetTokenRepository.
type ResetTokenRepository struct {
	db DBTX
}

func NewResetTokenRepository(db DBTX) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Issue retires the account's outstanding tokens and stores the new one in
// the same transaction. The account row is locked first so concurrent
// requests for one account queue up and leave a single live token.
func (r *ResetTokenRepository) Issue(ctx context.Context, t *domain.PasswordResetToken, now time.Time) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx,
			`SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, t.UserID,
		).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("lock account: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE password_reset_tokens SET used_at = $1 WHERE user_id = $2 AND used_at IS NULL`,
			now, t.UserID,
		); err != nil {
			return fmt.Errorf("invalidate reset tokens: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert reset token: %w", err)
		}
		return nil
	})
}

// Redeem claims the token with a conditional UPDATE. Postgres row locking
// makes concurrent claims of the same digest serialize: the losers see
// used_at already set and match no row.
func (r *ResetTokenRepository) Redeem(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `
			UPDATE password_reset_tokens
			SET used_at = $1
			WHERE token_hash = $2 AND used_at IS NULL AND expires_at > $1
			RETURNING user_id`,
			now, tokenHash,
		).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrInvalidResetToken
			}
			return fmt.Errorf("claim reset token: %w", err)
		}

		ct, err := tx.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, newPasswordHash, userID)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return domain.ErrInvalidResetToken
		}
		return nil
	})
}
