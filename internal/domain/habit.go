package domain

import (
	"fmt"
	"time"
)

type Habit struct {
	ID               string
	UserID           string
	StreakID         string
	Title            string
	Description      string
	DifficultyLevel  int // 1-5
	EstimatedMinutes int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (h *Habit) Validate() error {
	if h.StreakID == "" {
		return fmt.Errorf("habit must belong to a streak")
	}
	if h.Title == "" {
		return fmt.Errorf("habit title is required")
	}
	if len(h.Title) > 200 {
		return fmt.Errorf("habit title must be at most 200 characters")
	}
	if len(h.Description) > 500 {
		return fmt.Errorf("habit description must be at most 500 characters")
	}
	if h.DifficultyLevel < 1 || h.DifficultyLevel > 5 {
		return fmt.Errorf("difficulty level must be between 1 and 5")
	}
	if h.EstimatedMinutes < 1 || h.EstimatedMinutes > 480 {
		return fmt.Errorf("estimated minutes must be between 1 and 480")
	}
	return nil
}

// ClampLevel clamps v into the 1-5 range used for habit difficulty and
// task effort.
func ClampLevel(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
