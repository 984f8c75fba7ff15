package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type analyticsService struct {
	users       repository.UserRepo
	streaks     repository.StreakRepo
	habits      repository.HabitRepo
	completions repository.CompletionRepo
	emotions    repository.EmotionRepo
}

func NewAnalyticsService(
	users repository.UserRepo,
	streaks repository.StreakRepo,
	habits repository.HabitRepo,
	completions repository.CompletionRepo,
	emotions repository.EmotionRepo,
) AnalyticsService {
	return &analyticsService{
		users:       users,
		streaks:     streaks,
		habits:      habits,
		completions: completions,
		emotions:    emotions,
	}
}

// Report assembles the trailing-window activity report. The window covers
// the given number of days ending today in the user's timezone.
func (s *analyticsService) Report(ctx context.Context, userID string, days int) (*AnalyticsReport, error) {
	if days < 1 || days > 90 {
		days = 7
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	since := userDateOffset(u, -(days - 1))

	var (
		completions []*domain.HabitCompletion
		checkins    []*domain.EmotionCheckin
		streaks     []*domain.Streak
		habits      []*domain.Habit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completions, err = s.completions.ListSince(gctx, userID, since)
		return err
	})
	g.Go(func() error {
		var err error
		checkins, err = s.emotions.ListSince(gctx, userID, since)
		return err
	})
	g.Go(func() error {
		var err error
		streaks, err = s.streaks.List(gctx, userID, true)
		return err
	})
	g.Go(func() error {
		var err error
		habits, err = s.habits.List(gctx, userID, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	daily := dailyCounts(u, days, completions)

	report := &AnalyticsReport{
		WeeklyCompletions: daily,
		EmotionHistory:    emotionHistory(checkins),
		StreakStats:       streakStats(streaks),
		HabitStats:        habitStats(completions, habits, days),
		WeeklyTrend:       weeklyTrend(daily),
		ConsistencyScore:  consistencyPct(daily, days),
	}
	return report, nil
}

// dailyCounts buckets completions by date over the window, oldest first.
// Every date in the window gets a bucket even when empty.
func dailyCounts(u *domain.User, days int, completions []*domain.HabitCompletion) []DailyCount {
	byDate := make(map[string]int, len(completions))
	for _, c := range completions {
		byDate[c.Date]++
	}
	counts := make([]DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := userDateOffset(u, -i)
		counts = append(counts, DailyCount{Date: date, Count: byDate[date]})
	}
	return counts
}

func emotionHistory(checkins []*domain.EmotionCheckin) []EmotionSample {
	history := make([]EmotionSample, 0, len(checkins))
	for _, c := range checkins {
		history = append(history, EmotionSample{Date: c.Date, Emotion: c.Emotion})
	}
	return history
}

func streakStats(streaks []*domain.Streak) StreakStats {
	var stats StreakStats
	for _, st := range streaks {
		if st.LongestCount > stats.LongestStreak {
			stats.LongestStreak = st.LongestCount
		}
		if st.State == domain.StreakRecovery {
			stats.StreaksInRecovery++
		}
		if !st.IsActive {
			continue
		}
		stats.TotalStreaks++
		if st.CurrentCount > stats.CurrentBestStreak {
			stats.CurrentBestStreak = st.CurrentCount
		}
	}
	return stats
}

func habitStats(completions []*domain.HabitCompletion, habits []*domain.Habit, days int) HabitStats {
	stats := HabitStats{
		TotalCompletions:  len(completions),
		AverageDifficulty: 3,
	}
	if possible := len(habits) * days; possible > 0 {
		stats.CompletionRate = float64(len(completions)) / float64(possible) * 100
	}
	if len(completions) > 0 {
		stats.AverageDifficulty = averageDifficulty(completions)
	}

	titles := make(map[string]string, len(habits))
	for _, h := range habits {
		titles[h.ID] = h.Title
	}
	counts := make(map[string]int, len(completions))
	var favorite string
	var best int
	for _, c := range completions {
		counts[c.HabitID]++
		if counts[c.HabitID] > best {
			best = counts[c.HabitID]
			favorite = titles[c.HabitID]
		}
	}
	stats.FavoriteHabit = favorite
	return stats
}

// weeklyTrend compares the second half of the window against the first.
// A 20% rise reads as improving, a 20% drop as declining.
func weeklyTrend(daily []DailyCount) domain.EmotionalTrend {
	var total, firstHalf, secondHalf int
	half := len(daily) / 2
	for i, d := range daily {
		total += d.Count
		if i < half {
			firstHalf += d.Count
		} else {
			secondHalf += d.Count
		}
	}
	if total == 0 {
		return domain.TrendUnknown
	}
	switch {
	case float64(secondHalf) > float64(firstHalf)*1.2:
		return domain.TrendImproving
	case float64(secondHalf) < float64(firstHalf)*0.8:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func consistencyPct(daily []DailyCount, days int) float64 {
	var active int
	for _, d := range daily {
		if d.Count > 0 {
			active++
		}
	}
	return float64(active) / float64(days) * 100
}
