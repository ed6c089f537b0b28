package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	userID := uuid.New()

	token, issued, err := m.GenerateToken(userID, "clerk@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	userID := uuid.New()
	m := NewTokenManager("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewTokenManager("other", time.Hour).GenerateToken(userID, "a@b.c")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager("secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.GenerateToken(userID, "a@b.c")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := &Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{ID: "x"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing token id", func(t *testing.T) {
		claims := &Claims{UserID: userID}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	ok, err := VerifyPassword(hash, "password123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "password124")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("", "password123")
	assert.Error(t, err)
}
