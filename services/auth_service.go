package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/logger"
	"inventory-billing/models"
	"inventory-billing/repositories"
	"inventory-billing/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type AuthSession struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      models.AuthUser `json:"user"`
}

type AuthService struct {
	userRepo     repositories.UserRepository
	tokens       *utils.TokenManager
	revoker      TokenRevoker
	storeTimeout time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, tokens *utils.TokenManager, revoker TokenRevoker, storeTimeout time.Duration) *AuthService {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &AuthService{
		userRepo:     userRepo,
		tokens:       tokens,
		revoker:      revoker,
		storeTimeout: storeTimeout,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperrors.Validation("Please enter a valid email")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("Password must be at least %d characters", minPasswordLength)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &models.User{Email: email, PasswordHash: hashedPassword}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.userRepo.CreateUser(storeCtx, user); err != nil {
		return nil, err
	}

	logger.With(ctx).Info("User signed up", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByEmail(storeCtx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.PasswordHash, password)
	if err != nil || !valid {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.issue(user)
}

// SignOut revokes the token described by claims.
func (s *AuthService) SignOut(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.Unauthorized("Not signed in")
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.Internal("Failed to sign out", err)
	}
	logger.With(ctx).Info("User signed out", zap.String("user_id", claims.UserID.String()))
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Invalid or expired token", err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check token", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("Token has been revoked")
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.AuthUser, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindUserByID(storeCtx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized("User no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return &models.AuthUser{ID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthSession, error) {
	token, claims, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthSession{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      models.AuthUser{ID: user.ID, Email: user.Email},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
