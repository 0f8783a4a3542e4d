package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate("64f1b2a3c4d5e6f708192a3b", "staff")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2a3c4d5e6f708192a3b", claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Generate("64f1b2a3c4d5e6f708192a3b", "citizen")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate("64f1b2a3c4d5e6f708192a3b", "admin")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}
