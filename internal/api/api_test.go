package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/decision"
	"github.com/anchorhq/anchor/internal/llm"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/service"
	"github.com/anchorhq/anchor/internal/testutil"
)

// stubModel returns a canned model reply or a transport error.
type stubModel struct {
	text string
	err  error
}

func (s *stubModel) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.text, Model: "stub-model"}, nil
}

// newTestServer wires the full HTTP surface over an in-memory database
// and the given model stub.
func newTestServer(t *testing.T, model llm.Client) *httptest.Server {
	t.Helper()
	conn := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(conn)

	users := repository.NewSQLiteUserRepo(conn)
	tokens := repository.NewSQLiteTokenRepo(conn)
	emotions := repository.NewSQLiteEmotionRepo(conn)
	streaks := repository.NewSQLiteStreakRepo(conn)
	habits := repository.NewSQLiteHabitRepo(conn)
	tasks := repository.NewSQLiteTaskRepo(conn)
	completions := repository.NewSQLiteCompletionRepo(conn)
	analytics := repository.NewSQLiteAnalyticsRepo(conn)
	decisions := repository.NewSQLiteDecisionRepo(conn)
	notifications := repository.NewSQLiteNotificationRepo(conn)

	if model == nil {
		model = &stubModel{text: `{"action":"no_action","reasoning":"All steady.","confidence":0.7}`}
	}
	aggregator := decision.NewAggregator(users, emotions, streaks, habits, tasks, completions, analytics)
	engine := decision.NewEngine(model, "stub-model")
	executor := decision.NewExecutor(streaks, habits, tasks, notifications)
	decisionSvc := decision.NewService(aggregator, engine, executor, decisions, analytics, nil)

	services := Services{
		Auth:      service.NewAuthService(users, tokens),
		Users:     service.NewUserService(users),
		Emotions:  service.NewEmotionService(users, emotions, uow),
		Streaks:   service.NewStreakService(streaks),
		Habits:    service.NewHabitService(users, habits, streaks, uow),
		Tasks:     service.NewTaskService(users, tasks, uow),
		Analytics: service.NewAnalyticsService(users, streaks, habits, completions, emotions),
		Insights:  service.NewInsightsService(users, emotions, streaks, habits, completions, analytics, decisions),
		Dashboard: service.NewDashboardService(users, emotions, streaks, habits, tasks, completions, analytics),
		Decisions: decisionSvc,
		Tokens:    tokens,
	}

	srv := httptest.NewServer(NewServer(services, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func unmarshalData(t *testing.T, envelope map[string]json.RawMessage, dst any) {
	t.Helper()
	require.Contains(t, envelope, "data")
	require.NoError(t, json.Unmarshal(envelope["data"], dst))
}

// signup registers a fresh user and returns its bearer token.
func signup(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "hunter2password",
		"timezone": "UTC",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	unmarshalData(t, envelope, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestAPI_SignupAndLogin(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"email":    "maya@example.com",
		"password": "hunter2password",
		"timezone": "Europe/Berlin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		User  struct{ Email, Timezone string }
		Token string
	}
	unmarshalData(t, envelope, &created)
	assert.Equal(t, "maya@example.com", created.User.Email)
	assert.Equal(t, "Europe/Berlin", created.User.Timezone)

	resp, envelope = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "maya@example.com",
		"password": "hunter2password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logged struct {
		Token string `json:"token"`
	}
	unmarshalData(t, envelope, &logged)
	assert.NotEmpty(t, logged.Token)
}

func TestAPI_LoginBadPassword(t *testing.T) {
	srv := newTestServer(t, nil)
	signup(t, srv, "bad@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email":    "bad@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, envelope, "error")
}

func TestAPI_Unauthorized(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/api/dashboard", "/api/streaks", "/api/ai/insights"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAPI_BogusTokenRejected(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/streaks", "an_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "out@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/streaks", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_StreakLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "streaks@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/streaks", token, map[string]string{
		"title":       "Morning pages",
		"description": "Write before coffee",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var streak struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	unmarshalData(t, envelope, &streak)
	assert.Equal(t, "normal", streak.State)

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/streaks/"+streak.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched struct {
		Title string `json:"title"`
	}
	unmarshalData(t, envelope, &fetched)
	assert.Equal(t, "Morning pages", fetched.Title)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/streaks/"+streak.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/streaks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []json.RawMessage
	unmarshalData(t, envelope, &list)
	assert.Empty(t, list)
}

func TestAPI_StreakValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "valid@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/streaks", token, map[string]string{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, envelope, "error")
}

func TestAPI_StreakOwnership(t *testing.T) {
	srv := newTestServer(t, nil)
	owner := signup(t, srv, "owner@example.com")
	intruder := signup(t, srv, "intruder@example.com")

	_, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/streaks", owner, map[string]string{"title": "Private"})
	var streak struct {
		ID string `json:"id"`
	}
	unmarshalData(t, envelope, &streak)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/streaks/"+streak.ID, intruder, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func createHabit(t *testing.T, srv *httptest.Server, token, title string) (streakID, habitID string) {
	t.Helper()
	_, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/streaks", token, map[string]string{"title": title + " streak"})
	var streak struct {
		ID string `json:"id"`
	}
	unmarshalData(t, envelope, &streak)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/habits", token, map[string]any{
		"streak_id":         streak.ID,
		"title":             title,
		"difficulty_level":  3,
		"estimated_minutes": 15,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var habit struct {
		ID              string `json:"id"`
		DifficultyLabel string `json:"difficulty_label"`
	}
	unmarshalData(t, envelope, &habit)
	assert.Equal(t, "Medium", habit.DifficultyLabel)
	return streak.ID, habit.ID
}

func TestAPI_HabitCompleteBumpsStreak(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "habits@example.com")
	streakID, habitID := createHabit(t, srv, token, "Read")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/habits/"+habitID+"/complete", token, map[string]any{
		"difficulty_completed": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var completion struct {
		StreakID string `json:"streak_id"`
		Date     string `json:"date"`
	}
	unmarshalData(t, envelope, &completion)
	assert.Equal(t, streakID, completion.StreakID)

	_, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/streaks/"+streakID, token, nil)
	var streak struct {
		CurrentCount int `json:"current_count"`
	}
	unmarshalData(t, envelope, &streak)
	assert.Equal(t, 1, streak.CurrentCount)
}

func TestAPI_HabitCompleteTwiceConflicts(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "twice@example.com")
	_, habitID := createHabit(t, srv, token, "Stretch")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/habits/"+habitID+"/complete", token, map[string]any{
		"difficulty_completed": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/habits/"+habitID+"/complete", token, map[string]any{
		"difficulty_completed": 3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, envelope, "error")
}

func TestAPI_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "tasks@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", token, map[string]any{
		"title":            "File taxes",
		"estimated_effort": 4,
		"due_date":         "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var task struct {
		ID          string `json:"id"`
		DueDate     string `json:"due_date"`
		EffortLabel string `json:"effort_label"`
	}
	unmarshalData(t, envelope, &task)
	assert.Equal(t, "2026-09-15", task.DueDate)
	assert.Equal(t, "Significant", task.EffortLabel)

	resp, envelope = doJSON(t, http.MethodPost, srv.URL+"/api/tasks/"+task.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done struct {
		IsCompleted bool `json:"is_completed"`
	}
	unmarshalData(t, envelope, &done)
	assert.True(t, done.IsCompleted)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/tasks/nope/complete", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_EmotionCheckin(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "mood@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/emotions", token, map[string]string{
		"emotion": "low",
		"notes":   "slow start",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var checkin struct {
		Emotion      string `json:"emotion"`
		EmotionLabel string `json:"emotion_label"`
	}
	unmarshalData(t, envelope, &checkin)
	assert.Equal(t, "low", checkin.Emotion)
	assert.Equal(t, "Low", checkin.EmotionLabel)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/emotions", token, map[string]string{
		"emotion": "ecstatic",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/emotions?days=7", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []json.RawMessage
	unmarshalData(t, envelope, &list)
	assert.Len(t, list, 1)
}

func TestAPI_Dashboard(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "dash@example.com")
	_, habitID := createHabit(t, srv, token, "Walk")

	doJSON(t, http.MethodPost, srv.URL+"/api/emotions", token, map[string]string{"emotion": "energized"})
	doJSON(t, http.MethodPost, srv.URL+"/api/habits/"+habitID+"/complete", token, map[string]any{"difficulty_completed": 3})

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dash struct {
		NeedsCheckin bool `json:"needs_checkin"`
		Insights     struct {
			TotalActiveStreaks   int `json:"total_active_streaks"`
			TodayCompletedHabits int `json:"today_completed_habits"`
		} `json:"insights"`
	}
	unmarshalData(t, envelope, &dash)
	assert.False(t, dash.NeedsCheckin)
	assert.Equal(t, 1, dash.Insights.TotalActiveStreaks)
	assert.Equal(t, 1, dash.Insights.TodayCompletedHabits)
}

func TestAPI_Analytics(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "numbers@example.com")
	_, habitID := createHabit(t, srv, token, "Journal")
	doJSON(t, http.MethodPost, srv.URL+"/api/habits/"+habitID+"/complete", token, map[string]any{"difficulty_completed": 2})

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/analytics?days=7", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		WeeklyCompletions []struct {
			Count int `json:"count"`
		} `json:"weekly_completions"`
		HabitStats struct {
			TotalCompletions int    `json:"total_completions"`
			FavoriteHabit    string `json:"favorite_habit"`
		} `json:"habit_stats"`
	}
	unmarshalData(t, envelope, &report)
	require.Len(t, report.WeeklyCompletions, 7)
	assert.Equal(t, 1, report.WeeklyCompletions[6].Count)
	assert.Equal(t, 1, report.HabitStats.TotalCompletions)
	assert.Equal(t, "Journal", report.HabitStats.FavoriteHabit)
}

func TestAPI_Settings(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "prefs@example.com")

	resp, envelope := doJSON(t, http.MethodPut, srv.URL+"/api/settings", token, map[string]any{
		"full_name":            "New Name",
		"default_checkin_time": "21:00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		FullName           string `json:"full_name"`
		DefaultCheckinTime string `json:"default_checkin_time"`
	}
	unmarshalData(t, envelope, &updated)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "21:00", updated.DefaultCheckinTime)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/settings", token, map[string]any{
		"timezone": "Nowhere/Invalid",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ProcessDecision(t *testing.T) {
	model := &stubModel{text: `{"action":"pressure_adjustment","reasoning":"Dial it down.","confidence":0.85,"parameters":{"new_difficulty":2}}`}
	srv := newTestServer(t, model)
	token := signup(t, srv, "decide@example.com")
	_, _ = createHabit(t, srv, token, "Run")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/ai/decision", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Action        string  `json:"action"`
		Confidence    float64 `json:"confidence"`
		Executed      bool    `json:"executed"`
		DecisionLogID string  `json:"decision_log_id"`
	}
	unmarshalData(t, envelope, &result)
	assert.Equal(t, "pressure_adjustment", result.Action)
	assert.InDelta(t, 0.85, result.Confidence, 0.001)
	assert.True(t, result.Executed)
	assert.NotEmpty(t, result.DecisionLogID)

	// The adjusted difficulty is visible through the habit list.
	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/habits", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var habits []struct {
		DifficultyLevel int `json:"difficulty_level"`
	}
	unmarshalData(t, envelope, &habits)
	require.Len(t, habits, 1)
	assert.Equal(t, 2, habits[0].DifficultyLevel)
}

func TestAPI_ProcessDecision_ModelDownStillSucceeds(t *testing.T) {
	srv := newTestServer(t, &stubModel{err: fmt.Errorf("model unreachable")})
	token := signup(t, srv, "fallback@example.com")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/ai/decision", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "model failures never surface as server errors")

	var result struct {
		Action string `json:"action"`
	}
	unmarshalData(t, envelope, &result)
	assert.Equal(t, "no_action", result.Action)
}

func TestAPI_ProcessDecision_RateLimited(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "burst@example.com")

	var last int
	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/ai/decision", token, nil)
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestAPI_ListDecisions(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "history@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/ai/decision", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/ai/decisions?limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []struct {
		DecisionType string `json:"decision_type"`
	}
	unmarshalData(t, envelope, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "no_action", logs[0].DecisionType)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/ai/decisions?type=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Insights(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv, "insight@example.com")

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/ai/insights", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		StreakHealth        string   `json:"streak_health"`
		NextSuggestedAction string   `json:"next_suggested_action"`
		Recommendations     []string `json:"recommendations"`
	}
	unmarshalData(t, envelope, &report)
	assert.Equal(t, "none", report.StreakHealth)
	assert.Contains(t, report.NextSuggestedAction, "emotion check-in")
}
