package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnjournal/internal/auth"
	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
)

// AuthService handles registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Login returns ErrAuthenticationFailure for an unknown email and for a
	// wrong password alike.
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
	SessionTTL() time.Duration
}

type authService struct {
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Register creates a regular (non-admin) account.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return s.users.CreateUser(ctx, username, email, password, false)
}

// Login authenticates a user and returns a signed session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, ok, err := s.users.VerifyLogin(ctx, email, password)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, apperrors.ErrAuthenticationFailure
	}
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apperrors.ErrAuthenticationFailure
	}

	token, _, err := s.jwtService.GenerateSessionToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	return token, user, nil
}

// Logout revokes the session until its natural expiry.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrAuthenticationFailure
	}
	ttl := s.jwtService.TTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, ttl)
}

func (s *authService) SessionTTL() time.Duration {
	return s.jwtService.TTL()
}
