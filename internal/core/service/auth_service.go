package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api/metrics"
	"github.com/maraseel/shipping-site/internal/core/domain"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

// dummyPassword is hashed once and compared against on unknown-email logins
// so both branches pay for one bcrypt comparison.
const dummyPassword = "maraseel-timing-equaliser"

// AuthOptions tunes the auth service.
type AuthOptions struct {
	// AppURL is the public site origin used to build reset links.
	AppURL string
	// ExposeDevLink returns the reset link in the forgot-password response.
	// Only development deployments set it.
	ExposeDevLink bool
}

// AuthService implements signup, login, logout, whoami and the password reset flow.
type AuthService struct {
	accounts ports.AccountRepository
	tokens   ports.ResetTokenRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	mailer   ports.ResetDispatcher
	opts     AuthOptions
	logger   zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	accounts ports.AccountRepository,
	tokens ports.ResetTokenRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	mailer ports.ResetDispatcher,
	opts AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	opts.AppURL = strings.TrimRight(opts.AppURL, "/")
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		sessions: sessions,
		hasher:   hasher,
		issuer:   issuer,
		mailer:   mailer,
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.signup(ctx, email, password)
	observe("signup", err)
	return user, err
}

func (s *AuthService) signup(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		Role:            domain.RoleUser,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}
	// The unique index still decides a concurrent signup race.
	if err := s.accounts.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("signup create: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account created")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	res, err := s.login(ctx, email, password)
	observe("login", err)
	return res, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("login lookup failed")
		}
		s.hasher.Verify(password, s.dummyDigest())
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.accounts.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("could not record last login")
	} else {
		user.LastLoginAt = &now
	}

	handle, err := s.sessions.Create(ctx, domain.Session{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", domain.ErrInternal, err)
	}

	return &ports.LoginResult{SessionHandle: handle, User: user}, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error().Err(err).Msg("could not prepare dummy password digest")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Logout destroys the session behind handle. An empty handle is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionHandle string) error {
	if sessionHandle == "" {
		observe("logout", nil)
		return nil
	}
	err := s.sessions.Destroy(ctx, sessionHandle)
	if err != nil {
		err = fmt.Errorf("%w: destroy session: %v", domain.ErrInternal, err)
	}
	observe("logout", err)
	return err
}

// WhoAmI reads the session registry only; the account store is not consulted.
func (s *AuthService) WhoAmI(ctx context.Context, sessionHandle string) (*domain.Session, bool) {
	if sessionHandle == "" {
		return nil, false
	}
	return s.sessions.Read(ctx, sessionHandle)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ports.ForgotPasswordResult, error) {
	res, err := s.forgotPassword(ctx, email)
	observe("forgot_password", err)
	return res, err
}

func (s *AuthService) forgotPassword(ctx context.Context, email string) (*ports.ForgotPasswordResult, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &ports.ForgotPasswordResult{}, nil
		}
		return nil, fmt.Errorf("forgot password lookup: %w", err)
	}

	secret := s.issuer.Issue()
	now := s.now()
	token := &domain.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: s.issuer.Digest(secret),
		ExpiresAt: now.Add(domain.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Issue(ctx, token, now); err != nil {
		// Deleted between lookup and issue: answer as for an unknown email.
		if errors.Is(err, domain.ErrUserNotFound) {
			return &ports.ForgotPasswordResult{}, nil
		}
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	link := s.resetLink(secret)
	if !s.mailer.Enqueue(ports.ResetNotification{Email: user.Email, Link: link}) {
		s.logger.Warn().Str("user_id", user.ID).Msg("reset notification not queued")
	}

	res := &ports.ForgotPasswordResult{}
	if s.opts.ExposeDevLink {
		s.logger.Info().Str("reset_link", link).Msg("development reset link")
		res.DevLink = link
	}
	return res, nil
}

func (s *AuthService) resetLink(secret string) string {
	return s.opts.AppURL + "/reset-password.html?token=" + secret
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	err := s.resetPassword(ctx, token, newPassword)
	observe("reset_password", err)
	return err
}

func (s *AuthService) resetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.tokens.Redeem(ctx, s.issuer.Digest(token), hash, s.now()); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			return err
		}
		return fmt.Errorf("redeem reset token: %w", err)
	}

	s.logger.Info().Msg("password reset completed")
	return nil
}

// observe records the outcome of an auth operation.
func observe(operation string, err error) {
	metrics.AuthOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, domain.ErrInvalidResetToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordTooLong):
		return "validation"
	default:
		return "error"
	}
}
