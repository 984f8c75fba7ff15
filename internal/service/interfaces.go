package service

import (
	"context"

	"github.com/anchorhq/anchor/internal/domain"
)

type AuthService interface {
	// Signup creates the user and issues a bearer token for it.
	Signup(ctx context.Context, email, password, fullName, timezone string) (*domain.User, string, error)
	// Login verifies the password and issues a fresh bearer token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
}

type UserService interface {
	GetSettings(ctx context.Context, userID string) (*domain.User, error)
	UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (*domain.User, error)
}

type EmotionService interface {
	// CheckIn records today's emotion, replacing an earlier check-in on
	// the same date.
	CheckIn(ctx context.Context, userID string, emotion domain.EmotionState, notes string) (*domain.EmotionCheckin, error)
	ListRecent(ctx context.Context, userID string, days int) ([]*domain.EmotionCheckin, error)
}

type StreakService interface {
	Create(ctx context.Context, s *domain.Streak) error
	GetByID(ctx context.Context, userID, id string) (*domain.Streak, error)
	List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Streak, error)
	Deactivate(ctx context.Context, userID, id string) error
}

type HabitService interface {
	Create(ctx context.Context, h *domain.Habit) error
	List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error)
	// Complete records today's completion for the habit, advances its
	// streak and updates the day's analytics rollup. Returns
	// repository.ErrDuplicate when the habit was already completed today.
	Complete(ctx context.Context, userID, habitID string, difficultyCompleted int, notes string) (*domain.HabitCompletion, error)
	Deactivate(ctx context.Context, userID, id string) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Task, error)
	Complete(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type AnalyticsService interface {
	Report(ctx context.Context, userID string, days int) (*AnalyticsReport, error)
}

type InsightsService interface {
	Insights(ctx context.Context, userID string) (*InsightsReport, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*DashboardData, error)
}

// SettingsUpdate carries the mutable profile fields. Nil fields are left
// unchanged.
type SettingsUpdate struct {
	FullName           *string
	Timezone           *string
	DefaultCheckinTime *string
	Notifications      *domain.NotificationPreferences
}

// DailyCount is one date bucket in the completions series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// EmotionSample is one dated emotion observation.
type EmotionSample struct {
	Date    string              `json:"date"`
	Emotion domain.EmotionState `json:"emotion"`
}

type StreakStats struct {
	TotalStreaks      int `json:"total_streaks"`
	LongestStreak     int `json:"longest_streak"`
	CurrentBestStreak int `json:"current_best_streak"`
	StreaksInRecovery int `json:"streaks_in_recovery"`
}

type HabitStats struct {
	TotalCompletions  int     `json:"total_completions"`
	CompletionRate    float64 `json:"completion_rate"`
	AverageDifficulty float64 `json:"average_difficulty"`
	FavoriteHabit     string  `json:"favorite_habit,omitempty"`
}

// AnalyticsReport is the trailing-window activity report behind
// GET /api/analytics.
type AnalyticsReport struct {
	WeeklyCompletions []DailyCount          `json:"weekly_completions"`
	EmotionHistory    []EmotionSample       `json:"emotion_history"`
	StreakStats       StreakStats           `json:"streak_stats"`
	HabitStats        HabitStats            `json:"habit_stats"`
	WeeklyTrend       domain.EmotionalTrend `json:"weekly_trend"`
	ConsistencyScore  float64               `json:"consistency_score"`
}

// InsightsReport is the rule-based guidance block behind
// GET /api/ai/insights.
type InsightsReport struct {
	Consistency         float64               `json:"consistency"`
	EmotionalTrend      domain.EmotionalTrend `json:"emotional_trend"`
	StreakHealth        domain.StreakHealth   `json:"streak_health"`
	Recommendations     []string              `json:"recommendations"`
	LastDecision        *domain.DecisionLog   `json:"-"`
	NextSuggestedAction string                `json:"next_suggested_action"`
}

// DashboardInsights is the derived summary block on the dashboard.
type DashboardInsights struct {
	TotalActiveStreaks   int     `json:"total_active_streaks"`
	LongestCurrentStreak int     `json:"longest_current_streak"`
	TodayCompletedHabits int     `json:"today_completed_habits"`
	TodayCompletedTasks  int     `json:"today_completed_tasks"`
	WeeklyConsistency    float64 `json:"weekly_consistency"`
	StreaksInRecovery    int     `json:"streaks_in_recovery"`
}

// DashboardData aggregates everything the dashboard shows in one call.
type DashboardData struct {
	User              *domain.User
	TodayCheckin      *domain.EmotionCheckin
	ActiveStreaks     []*domain.Streak
	TodayHabits       []*domain.Habit
	TodayTasks        []*domain.Task
	RecentCompletions []*domain.HabitCompletion
	WeeklyAnalytics   []*domain.UserAnalytics
	NeedsCheckin      bool
	Insights          DashboardInsights
}
