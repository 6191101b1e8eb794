package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	hash, err := HashPasswordArgon2("s3nha-forte", salt)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "argon2id$"))

	ok, err := VerifyPassword("s3nha-forte", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash, salt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordArgon2_EmptySalt(t *testing.T) {
	_, err := HashPasswordArgon2("pw", "")
	assert.Error(t, err)
}

func TestVerifyPassword_UnknownFormat(t *testing.T) {
	_, err := VerifyPassword("pw", "plaintext", "c2FsdA")
	assert.Error(t, err)
}

func TestGenerateSalt_Unique(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTSecret_CopyIsIsolated(t *testing.T) {
	SetJWTSecret("secret-a")
	got := GetJWTSecretByte()
	got[0] = 'X'
	assert.Equal(t, "secret-a", string(GetJWTSecretByte()))
}
