package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/testutil"
)

func setupDashboardService(t *testing.T) (*testEnv, DashboardService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewDashboardService(env.users, env.emotions, env.streaks, env.habits, env.tasks, env.completions, env.analytics)
	return env, svc
}

func TestDashboardService_GetDashboard(t *testing.T) {
	env, svc := setupDashboardService(t)
	u := env.seedUser(t)
	ctx := context.Background()

	long := env.seedStreak(t, u.ID, "Long run", testutil.WithStreakCounts(10, 15))
	env.seedStreak(t, u.ID, "Recovering", testutil.WithStreakState(domain.StreakRecovery))
	env.seedStreak(t, u.ID, "Retired", testutil.WithStreakInactive())

	habit := env.seedHabit(t, u.ID, long.ID, "Run 2km")

	dueToday := testutil.NewTestTask(u.ID, "Due today", testutil.WithDueDate(time.Now().UTC()))
	require.NoError(t, env.tasks.Create(ctx, dueToday))
	noDue := testutil.NewTestTask(u.ID, "Whenever")
	require.NoError(t, env.tasks.Create(ctx, noDue))
	later := testutil.NewTestTask(u.ID, "Next week", testutil.WithDueDate(time.Now().UTC().AddDate(0, 0, 7)))
	require.NoError(t, env.tasks.Create(ctx, later))
	require.NoError(t, env.tasks.Complete(ctx, u.ID, dueToday.ID, time.Now().UTC()))

	checkin := testutil.NewTestCheckin(u.ID, domain.EmotionEnergized, testutil.DateOffset(0))
	require.NoError(t, env.emotions.Upsert(ctx, checkin))

	env.seedCompletion(t, u.ID, habit.ID, long.ID, testutil.DateOffset(0), 3)
	env.seedCompletion(t, u.ID, habit.ID, long.ID, testutil.DateOffset(-1), 3)

	data, err := svc.GetDashboard(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, u.ID, data.User.ID)
	require.NotNil(t, data.TodayCheckin)
	assert.False(t, data.NeedsCheckin)
	assert.Len(t, data.ActiveStreaks, 2, "inactive streaks stay off the dashboard")
	assert.Len(t, data.TodayHabits, 1)
	assert.Len(t, data.TodayTasks, 2, "tasks due later are excluded")
	assert.Len(t, data.RecentCompletions, 2)

	insights := data.Insights
	assert.Equal(t, 2, insights.TotalActiveStreaks)
	assert.Equal(t, 10, insights.LongestCurrentStreak)
	assert.Equal(t, 1, insights.TodayCompletedHabits)
	assert.Equal(t, 1, insights.TodayCompletedTasks)
	assert.Equal(t, 1, insights.StreaksInRecovery)
	assert.InDelta(t, 2.0/7, insights.WeeklyConsistency, 0.001)
}

func TestDashboardService_GetDashboard_NeedsCheckin(t *testing.T) {
	env, svc := setupDashboardService(t)
	u := env.seedUser(t)

	data, err := svc.GetDashboard(context.Background(), u.ID)
	require.NoError(t, err)

	assert.True(t, data.NeedsCheckin)
	assert.Nil(t, data.TodayCheckin)
	assert.Empty(t, data.ActiveStreaks)
	assert.Zero(t, data.Insights.TodayCompletedHabits)
}
