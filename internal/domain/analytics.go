package domain

import "time"

// UserAnalytics is one per-user per-date rollup row. Rows are written by
// the analytics service as activity happens and read back by the decision
// engine as a trailing window.
type UserAnalytics struct {
	ID                   string
	UserID               string
	Date                 string // YYYY-MM-DD
	TotalHabitsCompleted int
	TotalTasksCompleted  int
	AverageDifficulty    float64
	EmotionState         EmotionState // empty if no check-in that day
	StreakRecoveryDays   int
	AIInterventionsCount int
	CreatedAt            time.Time
}
