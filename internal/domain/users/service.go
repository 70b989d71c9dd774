package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"empdir/internal/auth"
	"empdir/internal/platform/email"
)

type Service struct {
	store  Store
	secret string
	ttl    time.Duration
	// Clock defaults to time.Now; tests replace it to move past token expiry.
	Clock func() time.Time
}

func NewService(store Store, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, Clock: time.Now}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (string, error) {
	address := email.Normalize(input.Email)

	_, err := s.store.FindByEmail(ctx, address)
	switch {
	case err == nil:
		return "", ErrConflict
	case !errors.Is(err, ErrNotFound):
		return "", err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return s.store.Create(ctx, User{
		Username:     strings.TrimSpace(input.Username),
		Email:        address,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
}

func (s *Service) Login(ctx context.Context, address, password string) (LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email.Normalize(address))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, s.now(), s.ttl)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResult{Token: token, Username: user.Username, Email: user.Email}, nil
}

func (s *Service) Verify(token string) (auth.UserContext, error) {
	claims, err := auth.ParseToken(s.secret, token, s.now())
	if err != nil {
		return auth.UserContext{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return auth.UserContext{UserID: claims.UserID, Username: claims.Username, Email: claims.Email}, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}
