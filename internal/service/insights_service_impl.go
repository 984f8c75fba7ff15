package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type insightsService struct {
	users       repository.UserRepo
	emotions    repository.EmotionRepo
	streaks     repository.StreakRepo
	habits      repository.HabitRepo
	completions repository.CompletionRepo
	analytics   repository.AnalyticsRepo
	decisions   repository.DecisionRepo
}

func NewInsightsService(
	users repository.UserRepo,
	emotions repository.EmotionRepo,
	streaks repository.StreakRepo,
	habits repository.HabitRepo,
	completions repository.CompletionRepo,
	analytics repository.AnalyticsRepo,
	decisions repository.DecisionRepo,
) InsightsService {
	return &insightsService{
		users:       users,
		emotions:    emotions,
		streaks:     streaks,
		habits:      habits,
		completions: completions,
		analytics:   analytics,
		decisions:   decisions,
	}
}

func (s *insightsService) Insights(ctx context.Context, userID string) (*InsightsReport, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := userToday(u)

	var (
		checkin     *domain.EmotionCheckin
		streaks     []*domain.Streak
		habits      []*domain.Habit
		completions []*domain.HabitCompletion
		rollups     []*domain.UserAnalytics
		recent      []*domain.DecisionLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.emotions.GetByDate(gctx, userID, today)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		checkin = c
		return nil
	})
	g.Go(func() error {
		var err error
		streaks, err = s.streaks.List(gctx, userID, false)
		return err
	})
	g.Go(func() error {
		var err error
		habits, err = s.habits.List(gctx, userID, false)
		return err
	})
	g.Go(func() error {
		var err error
		completions, err = s.completions.ListSince(gctx, userID, userDateOffset(u, -6))
		return err
	})
	g.Go(func() error {
		var err error
		rollups, err = s.analytics.ListSince(gctx, userID, userDateOffset(u, -6))
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.decisions.ListRecent(gctx, userID, 5, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &InsightsReport{
		Consistency:         consistencyScore(completions),
		EmotionalTrend:      emotionalTrend(rollups),
		StreakHealth:        streakHealth(streaks),
		Recommendations:     recommendations(checkin, streaks, completions, today),
		NextSuggestedAction: nextSuggestedAction(checkin, habits, completions, today),
	}
	if len(recent) > 0 {
		report.LastDecision = recent[0]
	}
	return report, nil
}

// consistencyScore scores the trailing week's completion volume against a
// one-per-day baseline, capped at 100.
func consistencyScore(completions []*domain.HabitCompletion) float64 {
	score := float64(len(completions)) / 7 * 100
	if score > 100 {
		return 100
	}
	return score
}

// emotionalTrend compares the newest three rollup emotions against the
// oldest three. Fewer than three observations reads as unknown.
func emotionalTrend(rollups []*domain.UserAnalytics) domain.EmotionalTrend {
	if len(rollups) < 3 {
		return domain.TrendUnknown
	}
	scores := make([]int, 0, len(rollups))
	for _, a := range rollups {
		scores = append(scores, emotionScore(a.EmotionState))
	}

	var oldest, newest int
	for i := 0; i < 3; i++ {
		oldest += scores[i]
		newest += scores[len(scores)-3+i]
	}
	switch {
	case newest-oldest > 1:
		return domain.TrendImproving
	case newest-oldest < -1:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func streakHealth(streaks []*domain.Streak) domain.StreakHealth {
	if len(streaks) == 0 {
		return domain.HealthNone
	}
	var total, inRecovery int
	for _, st := range streaks {
		total += st.CurrentCount
		if st.State == domain.StreakRecovery {
			inRecovery++
		}
	}
	avg := float64(total) / float64(len(streaks))
	switch {
	case avg >= 7 && inRecovery == 0:
		return domain.HealthExcellent
	case avg >= 3 && inRecovery <= 1:
		return domain.HealthGood
	default:
		return domain.HealthNeedsAttention
	}
}

func recommendations(checkin *domain.EmotionCheckin, streaks []*domain.Streak, completions []*domain.HabitCompletion, today string) []string {
	var recs []string
	if checkin != nil && checkin.Emotion == domain.EmotionOverwhelmed {
		recs = append(recs,
			"Consider switching to recovery mode for easier habits",
			"Focus on just showing up today, even if briefly")
	}
	for _, st := range streaks {
		if st.CurrentCount == 0 {
			recs = append(recs, "Restart a streak with the smallest possible version")
			break
		}
	}
	if countOnDate(completions, today) == 0 {
		recs = append(recs, "Complete at least one small habit today to maintain momentum")
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

func nextSuggestedAction(checkin *domain.EmotionCheckin, habits []*domain.Habit, completions []*domain.HabitCompletion, today string) string {
	if checkin == nil {
		return "Complete your daily emotion check-in for personalized guidance"
	}
	if countOnDate(completions, today) > 0 {
		return "Great progress today! Consider completing another habit if you have energy"
	}
	if len(habits) == 0 {
		return "Create your first habit to begin building consistency"
	}
	easiest := make([]*domain.Habit, len(habits))
	copy(easiest, habits)
	sort.SliceStable(easiest, func(i, j int) bool {
		return easiest[i].DifficultyLevel < easiest[j].DifficultyLevel
	})
	return fmt.Sprintf("Start with your easiest habit: %q", easiest[0].Title)
}

func countOnDate(completions []*domain.HabitCompletion, date string) int {
	var n int
	for _, c := range completions {
		if c.Date == date {
			n++
		}
	}
	return n
}
