package domain

import (
	"fmt"
	"time"
)

// HabitCompletion records one habit done on one date. Unique per
// (user, habit, date).
type HabitCompletion struct {
	ID                  string
	UserID              string
	HabitID             string
	StreakID            string
	Date                string // YYYY-MM-DD
	DifficultyCompleted int    // 1-5
	Notes               string
	CompletedAt         time.Time
}

func (c *HabitCompletion) Validate() error {
	if c.HabitID == "" || c.StreakID == "" {
		return fmt.Errorf("completion must reference a habit and a streak")
	}
	if c.DifficultyCompleted < 1 || c.DifficultyCompleted > 5 {
		return fmt.Errorf("completed difficulty must be between 1 and 5")
	}
	if len(c.Notes) > 500 {
		return fmt.Errorf("completion notes must be at most 500 characters")
	}
	return nil
}
