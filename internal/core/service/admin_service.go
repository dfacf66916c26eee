package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

// AdminService backs the admin dashboard. Callers are already known to hold
// an admin session.
type AdminService struct {
	repo   ports.AdminRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAdminService(repo ports.AdminRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	st, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return st, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes userID and returns its email. Admins cannot delete
// their own account.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) (string, error) {
	if actorID == userID {
		return "", domain.ErrSelfModification
	}
	email, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("actor_id", actorID).Str("user_id", userID).Msg("user deleted")
	return email, nil
}

// ChangeRole sets the role of userID. Admins cannot change their own role.
func (s *AdminService) ChangeRole(ctx context.Context, actorID, userID, role string) (string, error) {
	if !domain.ValidRole(role) {
		return "", domain.ErrInvalidRole
	}
	if actorID == userID {
		return "", domain.ErrSelfModification
	}
	email, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("actor_id", actorID).Str("user_id", userID).Str("role", role).Msg("user role changed")
	return email, nil
}
