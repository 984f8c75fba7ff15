package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/auth"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

const defaultCheckinTime = "08:00"

type authService struct {
	users  repository.UserRepo
	tokens repository.TokenRepo
}

func NewAuthService(users repository.UserRepo, tokens repository.TokenRepo) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, email, password, fullName, timezone string) (*domain.User, string, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", invalid(err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:                 uuid.New().String(),
		Email:              normalizeEmail(email),
		PasswordHash:       hash,
		FullName:           fullName,
		Timezone:           timezone,
		DefaultCheckinTime: defaultCheckinTime,
		Notifications:      domain.DefaultNotificationPreferences(),
		LastSeenAt:         now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.Validate(); err != nil {
		return nil, "", invalid(err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.users.TouchLastSeen(ctx, u.ID, time.Now().UTC()); err != nil {
		return nil, "", fmt.Errorf("touching last seen: %w", err)
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, auth.HashToken(token))
}

func (s *authService) issueToken(ctx context.Context, userID string) (string, error) {
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	expiresAt := time.Now().UTC().Add(auth.DefaultTokenExpiry)
	if err := s.tokens.Create(ctx, hash, userID, expiresAt); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	return plaintext, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
