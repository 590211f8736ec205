package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetrack/api/internal/apperror"
	"issuetrack/api/internal/config"
	"issuetrack/api/internal/repository"
	"issuetrack/api/internal/security"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:  "test-secret-at-least-32-characters!!",
			SessionTTL: time.Hour,
		},
	}
}

func newTestAuthService() (*AuthService, *repository.MemoryUserRepository) {
	users := repository.NewMemoryUserRepository()
	return NewAuthService(users, testConfig(), zerolog.Nop()), users
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	userID, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	token, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	claims, err := security.ParseSessionToken(token, testConfig().Security.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService()

	userID, err := svc.Register(ctx, "  A@X.com ", "secret1")
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)

	// Login with differently-cased email still resolves the same account.
	_, err = svc.Login(ctx, "A@x.COM", "secret1")
	assert.NoError(t, err)
}

func TestRegisterCollectsAllViolations(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), "not-an-email", "short")
	require.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Violations, 2, "both email and password violations reported")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	_, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A@X.com", "different1")
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)
}

func TestLoginFailsUniformly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	_, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	// Wrong password and unknown email produce the same failure kind and
	// message, so responses do not reveal which accounts exist.
	_, wrongPassword := svc.Login(ctx, "a@x.com", "wrong-password")
	_, unknownEmail := svc.Login(ctx, "b@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, apperror.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperror.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestPasswordIsStoredHashed(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService()

	userID, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.NotContains(t, string(stored.PasswordHash), "secret1")

	ok, err := security.VerifyPassword("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
