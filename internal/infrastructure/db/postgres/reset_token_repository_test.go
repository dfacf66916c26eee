package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

func sampleToken(now time.Time) *domain.PasswordResetToken {
	return &domain.PasswordResetToken{
		ID:        "0d6a1c55-63a5-4d3e-b8a3-1f54c6f0a001",
		UserID:    "5f0c6f9e-2f43-4d43-9d0b-6a4d7b0f7d11",
		TokenHash: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		ExpiresAt: now.Add(domain.ResetTokenTTL),
		CreatedAt: now,
	}
}

func TestResetTokenRepository_Issue(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(tok.UserID).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("UPDATE password_reset_tokens SET used_at").
		WithArgs(now, tok.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("INSERT INTO password_reset_tokens").
		WithArgs(tok.ID, tok.UserID, tok.TokenHash, tok.ExpiresAt, tok.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Issue(context.Background(), tok, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Issue_InsertFailsRollsBack(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(tok.UserID).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("UPDATE password_reset_tokens SET used_at").
		WithArgs(now, tok.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO password_reset_tokens").
		WithArgs(tok.ID, tok.UserID, tok.TokenHash, tok.ExpiresAt, tok.CreatedAt).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Issue(context.Background(), tok, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert reset token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Issue_AccountGone(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(tok.UserID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Issue(context.Background(), tok, now)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Issue_LockFails(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\$1 FOR UPDATE").
		WithArgs(tok.UserID).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.Issue(context.Background(), tok, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock account")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Issue_BeginError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Now().UTC()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Issue(context.Background(), sampleToken(now), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Redeem(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE password_reset_tokens").
		WithArgs(now, tok.TokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(tok.UserID))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("$2a$10$newdigest", tok.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Redeem(context.Background(), tok.TokenHash, "$2a$10$newdigest", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Redeem_NothingClaimed(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE password_reset_tokens").
		WithArgs(now, "used-or-expired").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), "used-or-expired", "$2a$10$newdigest", now)
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Redeem_PasswordUpdateFails(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewResetTokenRepository(mock)
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	tok := sampleToken(now)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE password_reset_tokens").
		WithArgs(now, tok.TokenHash).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(tok.UserID))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("$2a$10$newdigest", tok.UserID).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), tok.TokenHash, "$2a$10$newdigest", now)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
