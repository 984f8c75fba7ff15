package decision

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/llm"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/testutil"
)

// newDecisionService wires a full decision service over an in-memory
// database and the given model client.
func newDecisionService(db *sql.DB, client llm.Client) *Service {
	users := repository.NewSQLiteUserRepo(db)
	emotions := repository.NewSQLiteEmotionRepo(db)
	streaks := repository.NewSQLiteStreakRepo(db)
	habits := repository.NewSQLiteHabitRepo(db)
	tasks := repository.NewSQLiteTaskRepo(db)
	completions := repository.NewSQLiteCompletionRepo(db)
	analytics := repository.NewSQLiteAnalyticsRepo(db)
	notifications := repository.NewSQLiteNotificationRepo(db)
	decisions := repository.NewSQLiteDecisionRepo(db)

	aggregator := NewAggregator(users, emotions, streaks, habits, tasks, completions, analytics)
	engine := NewEngine(client, "test-model")
	executor := NewExecutor(streaks, habits, tasks, notifications)
	return NewService(aggregator, engine, executor, decisions, analytics, nil)
}

// geminiReply builds the generateContent response body carrying the given
// text as the sole candidate.
func geminiReply(t *testing.T, text string) []byte {
	t.Helper()
	body := map[string]any{
		"modelVersion": "test-model",
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func TestService_ProcessUserDecision_FullCycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, u))
	s := testutil.NewTestStreak(u.ID, "Daily reading")
	require.NoError(t, repository.NewSQLiteStreakRepo(db).Create(ctx, s))
	h := testutil.NewTestHabit(u.ID, s.ID, "Read 20 pages", testutil.WithDifficulty(4))
	require.NoError(t, repository.NewSQLiteHabitRepo(db).Create(ctx, h))

	decisionJSON := `{"action":"pressure_adjustment","reasoning":"Sustained effort deserves a lighter day","confidence":0.9,"parameters":{"new_difficulty":2}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiReply(t, decisionJSON))
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Model = "test-model"
	cfg.MaxRetries = 0
	client := llm.NewGeminiClient(cfg, llm.NoopObserver{})

	svc := newDecisionService(db, client)
	result, err := svc.ProcessUserDecision(ctx, u.ID)
	require.NoError(t, err)

	assert.True(t, result.Executed)
	assert.Equal(t, domain.ActionPressureAdjustment, result.Decision.Action)
	require.NotEmpty(t, result.DecisionLogID)

	// The habit difficulty was applied.
	fetched, err := repository.NewSQLiteHabitRepo(db).GetByID(ctx, u.ID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.DifficultyLevel)

	// The decision was logged with its outcome attached.
	logged, err := repository.NewSQLiteDecisionRepo(db).GetByID(ctx, u.ID, result.DecisionLogID)
	require.NoError(t, err)
	assert.Equal(t, PromptVersion, logged.PromptVersion)
	assert.Equal(t, "test-model", logged.ModelUsed)
	require.NotNil(t, logged.ExecutedAt)
	require.NotNil(t, logged.Outcome)
	assert.True(t, logged.Outcome.Success)
	assert.Equal(t, []string{"difficulty_adjusted"}, logged.Outcome.Actions)
}

func TestService_ProcessUserDecision_ModelDownUsesFallback(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, u))

	// Check in as overwhelmed so the fallback switches to recovery.
	s := testutil.NewTestStreak(u.ID, "Exercise")
	require.NoError(t, repository.NewSQLiteStreakRepo(db).Create(ctx, s))
	checkin := testutil.NewTestCheckin(u.ID, domain.EmotionOverwhelmed, testutil.DateOffset(0))
	require.NoError(t, repository.NewSQLiteEmotionRepo(db).Upsert(ctx, checkin))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0
	client := llm.NewGeminiClient(cfg, llm.NoopObserver{})

	svc := newDecisionService(db, client)
	result, err := svc.ProcessUserDecision(ctx, u.ID)
	require.NoError(t, err, "model failure must not surface as an error")

	assert.True(t, result.Executed)
	assert.Equal(t, domain.ActionStreakStateChange, result.Decision.Action)

	fetched, err := repository.NewSQLiteStreakRepo(db).GetByID(ctx, u.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StreakRecovery, fetched.State)
}

func TestService_ProcessUserDecision_UnknownUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDecisionService(db, &stubClient{text: "{}"})

	_, err := svc.ProcessUserDecision(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_ProcessUserDecision_RateLimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, u))

	svc := newDecisionService(db, &stubClient{text: `{"action":"no_action","reasoning":"steady","confidence":0.6}`})

	for i := 0; i < triggerBurst; i++ {
		_, err := svc.ProcessUserDecision(ctx, u.ID)
		require.NoError(t, err)
	}

	_, err := svc.ProcessUserDecision(ctx, u.ID)
	assert.ErrorIs(t, err, ErrRateLimited)

	// Another user has an independent budget.
	other := testutil.NewTestUser()
	require.NoError(t, repository.NewSQLiteUserRepo(db).Create(ctx, other))
	_, err = svc.ProcessUserDecision(ctx, other.ID)
	assert.NoError(t, err)
}

func TestService_ListDecisions_InvalidTypeRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDecisionService(db, &stubClient{text: "{}"})

	_, err := svc.ListDecisions(context.Background(), "user", 10, "mystery_action")
	assert.Error(t, err)
}
