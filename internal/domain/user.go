package domain

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	FullName           string
	Timezone           string
	DefaultCheckinTime string
	Notifications      NotificationPreferences
	OnboardedAt        *time.Time
	LastSeenAt         time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NotificationPreferences controls which notification categories a user
// has opted into. All categories default to on.
type NotificationPreferences struct {
	EmailReminders bool `json:"email_reminders"`
	StreakAlerts   bool `json:"streak_alerts"`
	AISuggestions  bool `json:"ai_suggestions"`
	WeeklySummary  bool `json:"weekly_summary"`
}

// DefaultNotificationPreferences returns the opt-in defaults for a new user.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailReminders: true,
		StreakAlerts:   true,
		AISuggestions:  true,
		WeeklySummary:  true,
	}
}

// Validate checks the fields a user record must carry before persistence.
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if u.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	return nil
}
