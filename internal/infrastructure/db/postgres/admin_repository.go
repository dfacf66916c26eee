package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maraseel/shipping-site/internal/core/domain"
)

// AdminRepository implements ports.AdminRepository.
type AdminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Stats(ctx context.Context, now time.Time) (*domain.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE email_verified_at IS NOT NULL),
			COUNT(*) FILTER (WHERE last_login_at IS NOT NULL),
			COUNT(*) FILTER (WHERE created_at > $1),
			COUNT(*) FILTER (WHERE created_at > $2)
		FROM users`

	var s domain.UserStats
	err := r.db.QueryRow(ctx, query, now.AddDate(0, 0, -7), now.AddDate(0, 0, -30)).Scan(
		&s.TotalUsers,
		&s.VerifiedUsers,
		&s.UsersLoggedIn,
		&s.NewUsersWeek,
		&s.NewUsersMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &s, nil
}

// ListUsers returns every account, newest first.
func (r *AdminRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *AdminRepository) DeleteUser(ctx context.Context, id string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING email`, id).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("delete user: %w", err)
	}
	return email, nil
}

func (r *AdminRepository) UpdateRole(ctx context.Context, id, role string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `UPDATE users SET role = $1 WHERE id = $2 RETURNING email`, role, id).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("update role: %w", err)
	}
	return email, nil
}
