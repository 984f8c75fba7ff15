package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

// upsertRollup loads (or starts) the user's analytics row for the date,
// applies mutate and writes it back.
func upsertRollup(ctx context.Context, analytics repository.AnalyticsRepo, userID, date string, mutate func(*domain.UserAnalytics)) error {
	a, err := analytics.GetByDate(ctx, userID, date)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		a = &domain.UserAnalytics{
			ID:        uuid.New().String(),
			UserID:    userID,
			Date:      date,
			CreatedAt: time.Now().UTC(),
		}
	case err != nil:
		return err
	}
	mutate(a)
	return analytics.Upsert(ctx, a)
}
