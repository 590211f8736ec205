package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"issuetrack/api/internal/apperror"
	"issuetrack/api/internal/config"
	"issuetrack/api/internal/ids"
	"issuetrack/api/internal/models"
	"issuetrack/api/internal/repository"
	"issuetrack/api/internal/security"
)

const minPasswordLength = 6

type AuthService struct {
	users      repository.UserRepository
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(users repository.UserRepository, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  cfg.Security.JWTSecret,
		sessionTTL: cfg.Security.SessionTTL,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Register creates an account. All validation violations are collected and
// reported together. The plaintext password is hashed immediately and never
// logged.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	var violations []apperror.Violation
	if !validEmail(email) {
		violations = append(violations, apperror.Violation{Field: "email", Message: "invalid email format"})
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		violations = append(violations, apperror.Violation{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(violations) > 0 {
		return "", apperror.Validation(violations...)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", apperror.DuplicateEmail(email)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", apperror.Store(err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return "", apperror.Unexpected(err)
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint closes the race between the existence check
		// and the insert.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", apperror.DuplicateEmail(email)
		}
		return "", apperror.Store(err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return user.ID, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	var violations []apperror.Violation
	if !validEmail(email) {
		violations = append(violations, apperror.Violation{Field: "email", Message: "invalid email format"})
	}
	if password == "" {
		violations = append(violations, apperror.Violation{Field: "password", Message: "password is required"})
	}
	if len(violations) > 0 {
		return "", apperror.Validation(violations...)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", apperror.Store(err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", apperror.InvalidCredentials()
	}

	token, err := security.GenerateSessionToken(s.jwtSecret, user.ID, s.sessionTTL)
	if err != nil {
		return "", apperror.Unexpected(err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return token, nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
