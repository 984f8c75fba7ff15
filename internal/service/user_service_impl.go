package service

import (
	"context"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) GetSettings(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *userService) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Timezone != nil {
		if _, err := time.LoadLocation(*update.Timezone); err != nil {
			return nil, invalid(err)
		}
		u.Timezone = *update.Timezone
	}
	if update.DefaultCheckinTime != nil {
		if _, err := time.Parse("15:04", *update.DefaultCheckinTime); err != nil {
			return nil, invalid(err)
		}
		u.DefaultCheckinTime = *update.DefaultCheckinTime
	}
	if update.Notifications != nil {
		u.Notifications = *update.Notifications
	}

	if err := u.Validate(); err != nil {
		return nil, invalid(err)
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
