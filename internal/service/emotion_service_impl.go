package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type emotionService struct {
	users    repository.UserRepo
	emotions repository.EmotionRepo
	uow      db.UnitOfWork
}

func NewEmotionService(users repository.UserRepo, emotions repository.EmotionRepo, uow db.UnitOfWork) EmotionService {
	return &emotionService{users: users, emotions: emotions, uow: uow}
}

func (s *emotionService) CheckIn(ctx context.Context, userID string, emotion domain.EmotionState, notes string) (*domain.EmotionCheckin, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	checkin := &domain.EmotionCheckin{
		ID:        uuid.New().String(),
		UserID:    userID,
		Emotion:   emotion,
		Notes:     notes,
		Date:      userToday(u),
		CreatedAt: time.Now().UTC(),
	}
	if err := checkin.Validate(); err != nil {
		return nil, invalid(err)
	}

	// The check-in and the day's rollup emotion move together.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEmotions := repository.NewSQLiteEmotionRepo(tx)
		txAnalytics := repository.NewSQLiteAnalyticsRepo(tx)

		if err := txEmotions.Upsert(ctx, checkin); err != nil {
			return err
		}
		return upsertRollup(ctx, txAnalytics, userID, checkin.Date, func(a *domain.UserAnalytics) {
			a.EmotionState = emotion
		})
	})
	if err != nil {
		return nil, err
	}
	return checkin, nil
}

func (s *emotionService) ListRecent(ctx context.Context, userID string, days int) ([]*domain.EmotionCheckin, error) {
	if days < 1 || days > 90 {
		days = 7
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.emotions.ListSince(ctx, userID, userDateOffset(u, -(days-1)))
}
