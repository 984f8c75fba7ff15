package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUserService_GetSettings(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	u := env.seedUser(t)

	got, err := svc.GetSettings(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.True(t, got.Notifications.AISuggestions)
}

func TestUserService_GetSettings_NotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	_, err := svc.GetSettings(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserService_UpdateSettings(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	u := env.seedUser(t)

	prefs := domain.NotificationPreferences{StreakAlerts: true}
	got, err := svc.UpdateSettings(context.Background(), u.ID, SettingsUpdate{
		FullName:           strPtr("New Name"),
		Timezone:           strPtr("America/New_York"),
		DefaultCheckinTime: strPtr("21:30"),
		Notifications:      &prefs,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.FullName)
	assert.Equal(t, "America/New_York", got.Timezone)
	assert.Equal(t, "21:30", got.DefaultCheckinTime)
	assert.False(t, got.Notifications.EmailReminders)
	assert.True(t, got.Notifications.StreakAlerts)

	reloaded, err := env.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", reloaded.Timezone)
}

func TestUserService_UpdateSettings_PartialLeavesRest(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	u := env.seedUser(t)

	got, err := svc.UpdateSettings(context.Background(), u.ID, SettingsUpdate{
		FullName: strPtr("Only Name"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Only Name", got.FullName)
	assert.Equal(t, u.Timezone, got.Timezone)
	assert.Equal(t, u.DefaultCheckinTime, got.DefaultCheckinTime)
}

func TestUserService_UpdateSettings_BadTimezone(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	u := env.seedUser(t)

	_, err := svc.UpdateSettings(context.Background(), u.ID, SettingsUpdate{
		Timezone: strPtr("Mars/Olympus_Mons"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_UpdateSettings_BadCheckinTime(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	u := env.seedUser(t)

	_, err := svc.UpdateSettings(context.Background(), u.ID, SettingsUpdate{
		DefaultCheckinTime: strPtr("9 o'clock"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
