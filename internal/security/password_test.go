package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams keeps tests quick; production defaults are deliberately slower.
var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPasswordWithParams("secret1", fastParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSaltedPerCall(t *testing.T) {
	first, err := HashPasswordWithParams("secret1", fastParams)
	require.NoError(t, err)
	second, err := HashPasswordWithParams("secret1", fastParams)
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
}

func TestHashNeverContainsPlaintext(t *testing.T) {
	hash, err := HashPasswordWithParams("hunter2password", fastParams)
	require.NoError(t, err)

	assert.False(t, strings.Contains(string(hash), "hunter2password"))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	tests := []string{
		"",
		"plaintext",
		"$argon2id$v=19$t=3,m=65536,p=2$onlyonepart",
		"$bcrypt$v=19$t=3,m=65536,p=2$c2FsdA==$aGFzaA==",
	}
	for _, encoded := range tests {
		_, err := VerifyPassword("secret1", []byte(encoded))
		assert.Error(t, err, "hash %q should not parse", encoded)
	}
}

func TestVerifyUsesParamsFromEncoding(t *testing.T) {
	// Hash with non-default params, verify without knowing them.
	params := Argon2Params{Time: 2, Memory: 16 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
	hash, err := HashPasswordWithParams("secret1", params)
	require.NoError(t, err)

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
