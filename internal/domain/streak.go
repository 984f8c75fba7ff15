package domain

import (
	"fmt"
	"time"
)

// Streak is an identity-based habit-tracking aggregate. Its state controls
// how much pressure the decision engine applies to the habits beneath it.
type Streak struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	CurrentCount    int
	LongestCount    int
	State           StreakState
	IsActive        bool
	LastCompletedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Streak) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("streak title is required")
	}
	if len(s.Title) > 200 {
		return fmt.Errorf("streak title must be at most 200 characters")
	}
	if len(s.Description) > 500 {
		return fmt.Errorf("streak description must be at most 500 characters")
	}
	if s.State != "" && !ValidStreakStates[string(s.State)] {
		return fmt.Errorf("invalid streak state %q", s.State)
	}
	return nil
}

// RecordCompletion advances the streak counters for a completion on the
// given date. Counts are monotonic per day: callers must reject duplicate
// same-day completions before calling this.
func (s *Streak) RecordCompletion(at time.Time) {
	s.CurrentCount++
	if s.CurrentCount > s.LongestCount {
		s.LongestCount = s.CurrentCount
	}
	t := at
	s.LastCompletedAt = &t
}
