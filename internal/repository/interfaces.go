package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist or does not
// belong to the requesting user. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness rule, such
// as a second habit completion on the same date or a reused email address.
var ErrDuplicate = errors.New("already exists")

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

type TokenRepo interface {
	Create(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	GetUserID(ctx context.Context, tokenHash string, now time.Time) (string, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type EmotionRepo interface {
	// Upsert records a check-in for the checkin's date, replacing any
	// earlier check-in on the same date.
	Upsert(ctx context.Context, c *domain.EmotionCheckin) error
	GetByDate(ctx context.Context, userID, date string) (*domain.EmotionCheckin, error)
	// ListSince returns check-ins on or after the given date, newest first.
	ListSince(ctx context.Context, userID, date string) ([]*domain.EmotionCheckin, error)
}

type StreakRepo interface {
	Create(ctx context.Context, s *domain.Streak) error
	GetByID(ctx context.Context, userID, id string) (*domain.Streak, error)
	List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Streak, error)
	Update(ctx context.Context, s *domain.Streak) error
	// UpdateState moves streaks into the given state. A nil or empty ids
	// slice targets every active streak the user owns.
	UpdateState(ctx context.Context, userID string, state domain.StreakState, ids []string) (int64, error)
	Deactivate(ctx context.Context, userID, id string) error
}

type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, userID, id string) (*domain.Habit, error)
	List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error)
	ListByStreak(ctx context.Context, userID, streakID string) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	// UpdateDifficulty sets the difficulty level on habits. A nil or empty
	// ids slice targets every active habit the user owns.
	UpdateDifficulty(ctx context.Context, userID string, level int, ids []string) (int64, error)
	Deactivate(ctx context.Context, userID, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Task, error)
	// ListOpenForDate returns incomplete tasks due on the given date or
	// carrying no due date at all.
	ListOpenForDate(ctx context.Context, userID, date string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	UpdateEffort(ctx context.Context, userID, id string, effort int) error
	Complete(ctx context.Context, userID, id string, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

type CompletionRepo interface {
	// Create inserts a completion row. Returns ErrDuplicate when the habit
	// was already completed on that date.
	Create(ctx context.Context, c *domain.HabitCompletion) error
	ListByDate(ctx context.Context, userID, date string) ([]*domain.HabitCompletion, error)
	ListSince(ctx context.Context, userID, date string) ([]*domain.HabitCompletion, error)
}

type AnalyticsRepo interface {
	GetByDate(ctx context.Context, userID, date string) (*domain.UserAnalytics, error)
	Upsert(ctx context.Context, a *domain.UserAnalytics) error
	// ListSince returns rollup rows on or after the given date, oldest first.
	ListSince(ctx context.Context, userID, date string) ([]*domain.UserAnalytics, error)
}

type DecisionRepo interface {
	Create(ctx context.Context, d *domain.DecisionLog) error
	GetByID(ctx context.Context, userID, id string) (*domain.DecisionLog, error)
	// AttachOutcome records the execution result on a logged decision.
	// Called exactly once per decision.
	AttachOutcome(ctx context.Context, id string, executedAt time.Time, outcome *domain.DecisionOutcome) error
	// ListRecent returns the newest decisions, optionally filtered by
	// decision type. Limit caps the result size; values outside 1-100
	// fall back to 10.
	ListRecent(ctx context.Context, userID string, limit int, decisionType string) ([]*domain.DecisionLog, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}
