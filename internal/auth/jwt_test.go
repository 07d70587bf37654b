package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.NewString()

	token, err := GenerateAccessToken(secret, userID, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "harmonize", claims.Issuer)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken([]byte("right"), uuid.NewString(), false)
	require.NoError(t, err)

	_, err = VerifyToken([]byte("wrong"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenEmpty(t *testing.T) {
	_, err := VerifyToken([]byte("secret"), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken([]byte("secret"), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	a := GenerateRefreshToken()
	b := GenerateRefreshToken()
	assert.NotEqual(t, a, b)
}
