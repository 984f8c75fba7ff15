package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

const (
	completionWindowDays = 14
	analyticsWindowDays  = 7
)

// Context is the full picture of a user handed to the decision engine.
// It is also serialized verbatim onto the decision log for later review.
type Context struct {
	User        *domain.User              `json:"user"`
	Emotion     *domain.EmotionCheckin    `json:"emotion,omitempty"`
	Streaks     []*domain.Streak          `json:"streaks"`
	Habits      []*domain.Habit           `json:"habits"`
	Tasks       []*domain.Task            `json:"tasks"`
	Completions []*domain.HabitCompletion `json:"completions"`
	Analytics   []*domain.UserAnalytics   `json:"analytics"`
	Today       string                    `json:"today"`
}

// Aggregator gathers decision context from the repositories.
type Aggregator struct {
	users       repository.UserRepo
	emotions    repository.EmotionRepo
	streaks     repository.StreakRepo
	habits      repository.HabitRepo
	tasks       repository.TaskRepo
	completions repository.CompletionRepo
	analytics   repository.AnalyticsRepo
}

func NewAggregator(
	users repository.UserRepo,
	emotions repository.EmotionRepo,
	streaks repository.StreakRepo,
	habits repository.HabitRepo,
	tasks repository.TaskRepo,
	completions repository.CompletionRepo,
	analytics repository.AnalyticsRepo,
) *Aggregator {
	return &Aggregator{
		users:       users,
		emotions:    emotions,
		streaks:     streaks,
		habits:      habits,
		tasks:       tasks,
		completions: completions,
		analytics:   analytics,
	}
}

// Gather assembles the decision context for a user. The profile fetch is
// fatal; every other fetch degrades to empty (or nil for today's check-in)
// so a partial picture still produces a decision.
func (a *Aggregator) Gather(ctx context.Context, userID string) (*Context, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gathering user profile: %w", err)
	}

	today := userToday(user)
	completionStart := dateOffset(user, -completionWindowDays)
	analyticsStart := dateOffset(user, -analyticsWindowDays)

	dc := &Context{User: user, Today: today}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emotion, err := a.emotions.GetByDate(gctx, userID, today)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return nil // degrade, check-in is optional
		}
		dc.Emotion = emotion
		return nil
	})
	g.Go(func() error {
		streaks, err := a.streaks.List(gctx, userID, false)
		if err == nil {
			dc.Streaks = streaks
		}
		return nil
	})
	g.Go(func() error {
		habits, err := a.habits.List(gctx, userID, false)
		if err == nil {
			dc.Habits = habits
		}
		return nil
	})
	g.Go(func() error {
		tasks, err := a.tasks.ListOpenForDate(gctx, userID, today)
		if err == nil {
			dc.Tasks = tasks
		}
		return nil
	})
	g.Go(func() error {
		completions, err := a.completions.ListSince(gctx, userID, completionStart)
		if err == nil {
			dc.Completions = completions
		}
		return nil
	})
	g.Go(func() error {
		analytics, err := a.analytics.ListSince(gctx, userID, analyticsStart)
		if err == nil {
			dc.Analytics = analytics
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dc, nil
}

// userToday returns today's YYYY-MM-DD date in the user's timezone,
// falling back to UTC when the timezone cannot be loaded.
func userToday(u *domain.User) string {
	return dateOffset(u, 0)
}

func dateOffset(u *domain.User, days int) string {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).AddDate(0, 0, days).Format("2006-01-02")
}
