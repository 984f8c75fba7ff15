package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type habitService struct {
	users   repository.UserRepo
	habits  repository.HabitRepo
	streaks repository.StreakRepo
	uow     db.UnitOfWork
}

func NewHabitService(users repository.UserRepo, habits repository.HabitRepo, streaks repository.StreakRepo, uow db.UnitOfWork) HabitService {
	return &habitService{users: users, habits: habits, streaks: streaks, uow: uow}
}

func (s *habitService) Create(ctx context.Context, h *domain.Habit) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.IsActive = true
	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now

	if err := h.Validate(); err != nil {
		return invalid(err)
	}
	// The streak must exist and belong to the same user.
	if _, err := s.streaks.GetByID(ctx, h.UserID, h.StreakID); err != nil {
		return err
	}
	return s.habits.Create(ctx, h)
}

func (s *habitService) List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error) {
	return s.habits.List(ctx, userID, includeInactive)
}

// Complete records today's completion, advances the habit's streak and
// refreshes the day's analytics rollup in one transaction.
func (s *habitService) Complete(ctx context.Context, userID, habitID string, difficultyCompleted int, notes string) (*domain.HabitCompletion, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	completion := &domain.HabitCompletion{
		ID:                  uuid.New().String(),
		UserID:              userID,
		HabitID:             habitID,
		Date:                userToday(u),
		DifficultyCompleted: difficultyCompleted,
		Notes:               notes,
		CompletedAt:         now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHabits := repository.NewSQLiteHabitRepo(tx)
		txStreaks := repository.NewSQLiteStreakRepo(tx)
		txCompletions := repository.NewSQLiteCompletionRepo(tx)
		txAnalytics := repository.NewSQLiteAnalyticsRepo(tx)

		habit, err := txHabits.GetByID(ctx, userID, habitID)
		if err != nil {
			return err
		}
		completion.StreakID = habit.StreakID
		if err := completion.Validate(); err != nil {
			return invalid(err)
		}

		streak, err := txStreaks.GetByID(ctx, userID, habit.StreakID)
		if err != nil {
			return err
		}

		// Unique (user, habit, date) index surfaces a repeat completion
		// as ErrDuplicate and rolls everything back.
		if err := txCompletions.Create(ctx, completion); err != nil {
			return err
		}

		streak.RecordCompletion(now)
		streak.UpdatedAt = now
		if err := txStreaks.Update(ctx, streak); err != nil {
			return err
		}

		todays, err := txCompletions.ListByDate(ctx, userID, completion.Date)
		if err != nil {
			return err
		}
		return upsertRollup(ctx, txAnalytics, userID, completion.Date, func(a *domain.UserAnalytics) {
			a.TotalHabitsCompleted = len(todays)
			a.AverageDifficulty = averageDifficulty(todays)
		})
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func (s *habitService) Deactivate(ctx context.Context, userID, id string) error {
	return s.habits.Deactivate(ctx, userID, id)
}

func averageDifficulty(completions []*domain.HabitCompletion) float64 {
	if len(completions) == 0 {
		return 0
	}
	var sum int
	for _, c := range completions {
		sum += c.DifficultyCompleted
	}
	return float64(sum) / float64(len(completions))
}
