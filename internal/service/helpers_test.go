package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/testutil"
)

// testEnv bundles the repositories every service test wires against one
// in-memory database.
type testEnv struct {
	conn          *sql.DB
	uow           db.UnitOfWork
	users         repository.UserRepo
	tokens        repository.TokenRepo
	emotions      repository.EmotionRepo
	streaks       repository.StreakRepo
	habits        repository.HabitRepo
	tasks         repository.TaskRepo
	completions   repository.CompletionRepo
	analytics     repository.AnalyticsRepo
	decisions     repository.DecisionRepo
	notifications repository.NotificationRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.NewTestDB(t)
	return &testEnv{
		conn:          conn,
		uow:           testutil.NewTestUoW(conn),
		users:         repository.NewSQLiteUserRepo(conn),
		tokens:        repository.NewSQLiteTokenRepo(conn),
		emotions:      repository.NewSQLiteEmotionRepo(conn),
		streaks:       repository.NewSQLiteStreakRepo(conn),
		habits:        repository.NewSQLiteHabitRepo(conn),
		tasks:         repository.NewSQLiteTaskRepo(conn),
		completions:   repository.NewSQLiteCompletionRepo(conn),
		analytics:     repository.NewSQLiteAnalyticsRepo(conn),
		decisions:     repository.NewSQLiteDecisionRepo(conn),
		notifications: repository.NewSQLiteNotificationRepo(conn),
	}
}

func (e *testEnv) seedUser(t *testing.T, opts ...testutil.UserOption) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(opts...)
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedStreak(t *testing.T, userID, title string, opts ...testutil.StreakOption) *domain.Streak {
	t.Helper()
	s := testutil.NewTestStreak(userID, title, opts...)
	require.NoError(t, e.streaks.Create(context.Background(), s))
	return s
}

func (e *testEnv) seedHabit(t *testing.T, userID, streakID, title string, opts ...testutil.HabitOption) *domain.Habit {
	t.Helper()
	h := testutil.NewTestHabit(userID, streakID, title, opts...)
	require.NoError(t, e.habits.Create(context.Background(), h))
	return h
}
