package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type streakService struct {
	streaks repository.StreakRepo
}

func NewStreakService(streaks repository.StreakRepo) StreakService {
	return &streakService{streaks: streaks}
}

func (s *streakService) Create(ctx context.Context, streak *domain.Streak) error {
	if streak.ID == "" {
		streak.ID = uuid.New().String()
	}
	if streak.State == "" {
		streak.State = domain.StreakNormal
	}
	streak.IsActive = true
	now := time.Now().UTC()
	streak.CreatedAt = now
	streak.UpdatedAt = now

	if err := streak.Validate(); err != nil {
		return invalid(err)
	}
	return s.streaks.Create(ctx, streak)
}

func (s *streakService) GetByID(ctx context.Context, userID, id string) (*domain.Streak, error) {
	return s.streaks.GetByID(ctx, userID, id)
}

func (s *streakService) List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Streak, error) {
	return s.streaks.List(ctx, userID, includeInactive)
}

func (s *streakService) Deactivate(ctx context.Context, userID, id string) error {
	return s.streaks.Deactivate(ctx, userID, id)
}
