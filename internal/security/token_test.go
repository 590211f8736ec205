package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters!!"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.ID, "token should carry a jti")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "another-secret-that-is-long-enough")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tokenStr := range []string{"", "not.a.token", "aaaa.bbbb"} {
		_, err := ParseSessionToken(tokenStr, testSecret)
		assert.Error(t, err, "token %q should not parse", tokenStr)
	}
}

func TestEachTokenGetsUniqueJTI(t *testing.T) {
	first, err := GenerateSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)
	second, err := GenerateSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	firstClaims, err := ParseSessionToken(first, testSecret)
	require.NoError(t, err)
	secondClaims, err := ParseSessionToken(second, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
