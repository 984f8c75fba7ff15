package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID              string
	UserID          string
	HabitID         string // optional link to a habit
	Title           string
	Description     string
	EstimatedEffort int // 1-5
	DueDate         *time.Time
	IsCompleted     bool
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if len(t.Title) > 200 {
		return fmt.Errorf("task title must be at most 200 characters")
	}
	if len(t.Description) > 500 {
		return fmt.Errorf("task description must be at most 500 characters")
	}
	if t.EstimatedEffort < 1 || t.EstimatedEffort > 5 {
		return fmt.Errorf("estimated effort must be between 1 and 5")
	}
	return nil
}
