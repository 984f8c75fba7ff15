package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/domain"
)

// User options
type UserOption func(*domain.User)

func WithTimezone(tz string) UserOption {
	return func(u *domain.User) {
		u.Timezone = tz
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:                 uuid.New().String(),
		Email:              uuid.New().String()[:8] + "@example.com",
		PasswordHash:       "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		FullName:           "Test User",
		Timezone:           "UTC",
		DefaultCheckinTime: "08:00",
		Notifications:      domain.DefaultNotificationPreferences(),
		LastSeenAt:         now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Streak options
type StreakOption func(*domain.Streak)

func WithStreakState(s domain.StreakState) StreakOption {
	return func(st *domain.Streak) {
		st.State = s
	}
}

func WithStreakCounts(current, longest int) StreakOption {
	return func(st *domain.Streak) {
		st.CurrentCount = current
		st.LongestCount = longest
	}
}

func WithLastCompletedAt(t time.Time) StreakOption {
	return func(st *domain.Streak) {
		st.LastCompletedAt = &t
	}
}

func WithStreakInactive() StreakOption {
	return func(st *domain.Streak) {
		st.IsActive = false
	}
}

func NewTestStreak(userID, title string, opts ...StreakOption) *domain.Streak {
	now := time.Now().UTC()
	s := &domain.Streak{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		State:     domain.StreakNormal,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Habit options
type HabitOption func(*domain.Habit)

func WithDifficulty(level int) HabitOption {
	return func(h *domain.Habit) {
		h.DifficultyLevel = level
	}
}

func WithHabitInactive() HabitOption {
	return func(h *domain.Habit) {
		h.IsActive = false
	}
}

func NewTestHabit(userID, streakID, title string, opts ...HabitOption) *domain.Habit {
	now := time.Now().UTC()
	h := &domain.Habit{
		ID:               uuid.New().String(),
		UserID:           userID,
		StreakID:         streakID,
		Title:            title,
		DifficultyLevel:  3,
		EstimatedMinutes: 15,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Task options
type TaskOption func(*domain.Task)

func WithEffort(effort int) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedEffort = effort
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithHabitLink(habitID string) TaskOption {
	return func(t *domain.Task) {
		t.HabitID = habitID
	}
}

func NewTestTask(userID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           title,
		EstimatedEffort: 3,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestCheckin builds an emotion check-in for the given date.
func NewTestCheckin(userID string, emotion domain.EmotionState, date string) *domain.EmotionCheckin {
	return &domain.EmotionCheckin{
		ID:        uuid.New().String(),
		UserID:    userID,
		Emotion:   emotion,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
}

// DateOffset returns the YYYY-MM-DD date string the given number of days
// from today, in UTC.
func DateOffset(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}
