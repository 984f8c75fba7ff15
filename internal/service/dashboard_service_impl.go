package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type dashboardService struct {
	users       repository.UserRepo
	emotions    repository.EmotionRepo
	streaks     repository.StreakRepo
	habits      repository.HabitRepo
	tasks       repository.TaskRepo
	completions repository.CompletionRepo
	analytics   repository.AnalyticsRepo
}

func NewDashboardService(
	users repository.UserRepo,
	emotions repository.EmotionRepo,
	streaks repository.StreakRepo,
	habits repository.HabitRepo,
	tasks repository.TaskRepo,
	completions repository.CompletionRepo,
	analytics repository.AnalyticsRepo,
) DashboardService {
	return &dashboardService{
		users:       users,
		emotions:    emotions,
		streaks:     streaks,
		habits:      habits,
		tasks:       tasks,
		completions: completions,
		analytics:   analytics,
	}
}

// GetDashboard aggregates the user's whole current state in one parallel
// fan-out. The profile fetch is mandatory; everything else degrades to
// empty.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*DashboardData, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := userToday(u)
	weekAgo := userDateOffset(u, -6)

	data := &DashboardData{User: u}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.emotions.GetByDate(gctx, userID, today)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		data.TodayCheckin = c
		return nil
	})
	g.Go(func() error {
		data.ActiveStreaks, _ = s.streaks.List(gctx, userID, false)
		return nil
	})
	g.Go(func() error {
		data.TodayHabits, _ = s.habits.List(gctx, userID, false)
		return nil
	})
	g.Go(func() error {
		all, err := s.tasks.List(gctx, userID, true)
		if err != nil {
			return nil
		}
		data.TodayTasks = tasksForDate(all, today)
		return nil
	})
	g.Go(func() error {
		data.RecentCompletions, _ = s.completions.ListSince(gctx, userID, weekAgo)
		return nil
	})
	g.Go(func() error {
		data.WeeklyAnalytics, _ = s.analytics.ListSince(gctx, userID, weekAgo)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.NeedsCheckin = data.TodayCheckin == nil
	data.Insights = dashboardInsights(data, today)
	return data, nil
}

// tasksForDate keeps tasks due on the date or carrying no due date,
// completed ones included.
func tasksForDate(tasks []*domain.Task, date string) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.DueDate == nil || t.DueDate.Format(dateLayout) == date {
			out = append(out, t)
		}
	}
	return out
}

func dashboardInsights(data *DashboardData, today string) DashboardInsights {
	insights := DashboardInsights{
		TotalActiveStreaks:   len(data.ActiveStreaks),
		TodayCompletedHabits: countOnDate(data.RecentCompletions, today),
		WeeklyConsistency:    float64(len(data.RecentCompletions)) / 7,
	}
	for _, st := range data.ActiveStreaks {
		if st.CurrentCount > insights.LongestCurrentStreak {
			insights.LongestCurrentStreak = st.CurrentCount
		}
		if st.State == domain.StreakRecovery {
			insights.StreaksInRecovery++
		}
	}
	for _, t := range data.TodayTasks {
		if t.IsCompleted {
			insights.TodayCompletedTasks++
		}
	}
	return insights
}
