package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

func TestAdminRepository_Stats(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAdminRepository(mock)
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs(now.AddDate(0, 0, -7), now.AddDate(0, 0, -30)).
		WillReturnRows(pgxmock.NewRows([]string{"total", "verified", "logged_in", "week", "month"}).
			AddRow(int64(12), int64(4), int64(9), int64(2), int64(7)))

	got, err := repo.Stats(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStats{
		TotalUsers:    12,
		VerifiedUsers: 4,
		UsersLoggedIn: 9,
		NewUsersWeek:  2,
		NewUsersMonth: 7,
	}, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_ListUsers(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAdminRepository(mock)

	older := sampleUser()
	newer := sampleUser()
	newer.ID = "a7f6d3a4-5b1e-4b8f-9f57-0c3d2e1f0b22"
	newer.Email = "noura@example.com"
	newer.CreatedAt = older.CreatedAt.Add(24 * time.Hour)

	mock.ExpectQuery("SELECT .+ FROM users ORDER BY created_at DESC").
		WillReturnRows(userRows(newer, older))

	got, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.Email, got[0].Email)
	assert.Equal(t, older.Email, got[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_ListUsers_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAdminRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users").WillReturnRows(userRows())

	got, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdminRepository_DeleteUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAdminRepository(mock)

	mock.ExpectQuery("DELETE FROM users").
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("amal@example.com"))
	mock.ExpectQuery("DELETE FROM users").
		WithArgs("u-missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("DELETE FROM users").
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	email, err := repo.DeleteUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "amal@example.com", email)

	_, err = repo.DeleteUser(context.Background(), "u-missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.DeleteUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_UpdateRole(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewAdminRepository(mock)

	mock.ExpectQuery("UPDATE users SET role").
		WithArgs(domain.RoleAdmin, "u-1").
		WillReturnRows(pgxmock.NewRows([]string{"email"}).AddRow("amal@example.com"))
	mock.ExpectQuery("UPDATE users SET role").
		WithArgs(domain.RoleAdmin, "u-missing").
		WillReturnError(pgx.ErrNoRows)

	email, err := repo.UpdateRole(context.Background(), "u-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "amal@example.com", email)

	_, err = repo.UpdateRole(context.Background(), "u-missing", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
