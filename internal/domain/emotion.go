package domain

import (
	"fmt"
	"time"
)

// EmotionCheckin is a user's daily emotional self-report. At most one row
// exists per user per date; a later check-in on the same date replaces the
// earlier one.
type EmotionCheckin struct {
	ID        string
	UserID    string
	Emotion   EmotionState
	Notes     string
	Date      string // YYYY-MM-DD in the user's day
	CreatedAt time.Time
}

func (e *EmotionCheckin) Validate() error {
	if !ValidEmotionStates[string(e.Emotion)] {
		return fmt.Errorf("invalid emotion %q", e.Emotion)
	}
	if len(e.Notes) > 500 {
		return fmt.Errorf("check-in notes must be at most 500 characters")
	}
	return nil
}
