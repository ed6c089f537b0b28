package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/repositories"
	"inventory-billing/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(revoker TokenRevoker) *AuthService {
	return NewAuthService(
		repositories.NewMemoryStore(),
		utils.NewTokenManager("test-secret", time.Hour),
		revoker,
		time.Second,
	)
}

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(nil)

	session, err := svc.SignUp(ctx, "  Clerk@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "clerk@example.com", session.User.Email)

	_, err = svc.SignUp(ctx, "clerk@example.com", "password123")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	signedIn, err := svc.SignIn(ctx, "CLERK@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, signedIn.User.ID)

	_, err = svc.SignIn(ctx, "clerk@example.com", "wrong-password")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.SignIn(ctx, "nobody@example.com", "password123")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(nil)

	_, err := svc.SignUp(ctx, "not-an-email", "password123")
	assert.Equal(t, "Please enter a valid email", apperrors.Message(err))

	_, err = svc.SignUp(ctx, "Clerk <clerk@example.com>", "password123")
	assert.Equal(t, "Please enter a valid email", apperrors.Message(err))

	_, err = svc.SignUp(ctx, "clerk@example.com", "short")
	assert.Equal(t, "Password must be at least 6 characters", apperrors.Message(err))
}

func TestAuthService_AuthenticateAndSignOut(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(nil)

	session, err := svc.SignUp(ctx, "clerk@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	me, err := svc.CurrentUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "clerk@example.com", me.Email)

	require.NoError(t, svc.SignOut(ctx, claims))

	_, err = svc.Authenticate(ctx, session.Token)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Equal(t, "Token has been revoked", apperrors.Message(err))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthService_RedisRevoker(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	svc := newTestAuthService(NewTokenRevoker(client))

	session, err := svc.SignUp(ctx, "clerk@example.com", "password123")
	require.NoError(t, err)
	claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))
	assert.True(t, mr.Exists(revokedKey(claims.ID)))

	_, err = svc.Authenticate(ctx, session.Token)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestMemoryRevoker_ForgetsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, r.Revoke(ctx, "stale", now.Add(-time.Minute)))

	revoked, _ := r.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = r.IsRevoked(ctx, "stale")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = r.IsRevoked(ctx, "a")
	assert.False(t, revoked)
}
