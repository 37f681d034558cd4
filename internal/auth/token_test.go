package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("issuer-secret"), time.Hour)
	verifier := NewTokenManager([]byte("other-secret"), time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), -time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "fake-token-1700000000"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q should be rejected", token)
	}
}

func TestVerify_Tampered(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	// Flip the last character of the signature segment
	flip := byte('x')
	if token[len(token)-1] == 'x' {
		flip = 'y'
	}
	tampered := token[:len(token)-1] + string(flip)
	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
