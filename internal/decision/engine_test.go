package decision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/llm"
	"github.com/anchorhq/anchor/internal/testutil"
)

// stubClient returns a canned reply or error.
type stubClient struct {
	text string
	err  error
}

func (s *stubClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.text, Model: "stub-model"}, nil
}

func testContext(emotion domain.EmotionState) *Context {
	user := testutil.NewTestUser()
	streak := testutil.NewTestStreak(user.ID, "Morning pages")
	habit := testutil.NewTestHabit(user.ID, streak.ID, "Write 500 words")
	task := testutil.NewTestTask(user.ID, "Review notes")

	dc := &Context{
		User:    user,
		Streaks: []*domain.Streak{streak},
		Habits:  []*domain.Habit{habit},
		Tasks:   []*domain.Task{task},
		Today:   time.Now().UTC().Format("2006-01-02"),
	}
	if emotion != "" {
		dc.Emotion = testutil.NewTestCheckin(user.ID, emotion, dc.Today)
	}
	return dc
}

func TestEngine_Decide_ValidReply(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	reply := `Here is my decision:
{
  "action": "pressure_adjustment",
  "reasoning": "User is doing fine, slight reduction to sustain momentum",
  "confidence": 0.85,
  "parameters": {"new_difficulty": 2}
}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	require.NotNil(t, res.Decision)
	assert.False(t, res.Fallback)
	assert.Equal(t, domain.ActionPressureAdjustment, res.Decision.Action)
	assert.InDelta(t, 0.85, res.Decision.Confidence, 0.001)
	require.NotNil(t, res.Decision.Parameters)
	require.NotNil(t, res.Decision.Parameters.NewDifficulty)
	assert.Equal(t, 2, *res.Decision.Parameters.NewDifficulty)
}

func TestEngine_Decide_ClampsOutOfRangeValues(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	reply := `{
  "action": "pressure_adjustment",
  "reasoning": "Pushing hard",
  "confidence": 1.7,
  "parameters": {"new_difficulty": 9.4}
}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	assert.InDelta(t, 1.0, res.Decision.Confidence, 0.001)
	require.NotNil(t, res.Decision.Parameters.NewDifficulty)
	assert.Equal(t, 5, *res.Decision.Parameters.NewDifficulty)
}

func TestEngine_Decide_UnknownActionBecomesNoAction(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	reply := `{"action": "delete_everything", "reasoning": "chaos", "confidence": 0.9}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	assert.Equal(t, domain.ActionNoAction, res.Decision.Action)
}

func TestEngine_Decide_DropsInvalidParameterFields(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	reply := `{
  "action": "streak_state_change",
  "reasoning": "Switching things up",
  "confidence": 0.8,
  "parameters": {
    "new_streak_state": "turbo",
    "notification_tone": "aggressive"
  }
}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	// Both fields invalid, so parameters collapse to nil.
	assert.Nil(t, res.Decision.Parameters)
}

func TestEngine_Decide_TaskModifications(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	knownTask := dc.Tasks[0].ID
	reply := `{
  "action": "task_modification",
  "reasoning": "Lightening the load",
  "confidence": 0.75,
  "parameters": {
    "task_modifications": [
      {"task_id": "` + knownTask + `", "new_effort": 0.4},
      {"task_id": "someone-elses-task", "new_effort": 2},
      {"task_id": "", "new_effort": 3}
    ]
  }
}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	require.NotNil(t, res.Decision.Parameters)
	mods := res.Decision.Parameters.TaskModifications
	require.Len(t, mods, 1, "unknown and empty task ids must be dropped")
	assert.Equal(t, knownTask, mods[0].TaskID)
	assert.Equal(t, 1, mods[0].NewEffort, "effort rounds then clamps into 1-5")
}

func TestEngine_Decide_FiltersUnownedTargetIDs(t *testing.T) {
	dc := testContext(domain.EmotionOkay)
	reply := `{
  "action": "pressure_adjustment",
  "reasoning": "Targeted reduction",
  "confidence": 0.8,
  "parameters": {
    "new_difficulty": 2,
    "habit_ids": ["` + dc.Habits[0].ID + `", "not-their-habit"],
    "streak_ids": ["not-their-streak"]
  }
}`
	engine := NewEngine(&stubClient{text: reply}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	require.NotNil(t, res.Decision.Parameters)
	assert.Equal(t, []string{dc.Habits[0].ID}, res.Decision.Parameters.HabitIDs)
	assert.Empty(t, res.Decision.Parameters.StreakIDs)
}

func TestEngine_Decide_MalformedReplyFallsBack(t *testing.T) {
	dc := testContext("")
	engine := NewEngine(&stubClient{text: "I think you should probably rest today."}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	assert.True(t, res.Fallback)
	assert.Equal(t, domain.ActionNoAction, res.Decision.Action)
	assert.InDelta(t, 0.6, res.Decision.Confidence, 0.001)
}

func TestEngine_Decide_ClientErrorFallsBack(t *testing.T) {
	dc := testContext(domain.EmotionOverwhelmed)
	engine := NewEngine(&stubClient{err: llm.ErrUnavailable}, "stub-model")

	res := engine.Decide(context.Background(), dc)
	assert.True(t, res.Fallback)
	assert.Equal(t, domain.ActionStreakStateChange, res.Decision.Action)
	require.NotNil(t, res.Decision.Parameters)
	assert.Equal(t, domain.StreakRecovery, res.Decision.Parameters.NewStreakState)
}

func TestFallbackDecision_RuleTable(t *testing.T) {
	overwhelmed := FallbackDecision(testContext(domain.EmotionOverwhelmed))
	assert.Equal(t, domain.ActionStreakStateChange, overwhelmed.Action)
	assert.InDelta(t, 0.8, overwhelmed.Confidence, 0.001)
	assert.Equal(t, "User is overwhelmed, switching to recovery mode for reduced pressure", overwhelmed.Reasoning)
	assert.Equal(t, domain.StreakRecovery, overwhelmed.Parameters.NewStreakState)

	low := FallbackDecision(testContext(domain.EmotionLow))
	assert.Equal(t, domain.ActionPressureAdjustment, low.Action)
	assert.InDelta(t, 0.7, low.Confidence, 0.001)
	require.NotNil(t, low.Parameters.NewDifficulty)
	assert.Equal(t, 2, *low.Parameters.NewDifficulty)

	okay := FallbackDecision(testContext(domain.EmotionOkay))
	assert.Equal(t, domain.ActionNoAction, okay.Action)
	assert.InDelta(t, 0.6, okay.Confidence, 0.001)
	assert.Nil(t, okay.Parameters)

	noCheckin := FallbackDecision(testContext(""))
	assert.Equal(t, domain.ActionNoAction, noCheckin.Action)
}

func TestConsistencyScore(t *testing.T) {
	dc := testContext("")
	today, _ := time.Parse("2006-01-02", dc.Today)

	for _, offset := range []int{0, 2, 4} {
		date := today.AddDate(0, 0, -offset).Format("2006-01-02")
		dc.Completions = append(dc.Completions,
			&domain.HabitCompletion{ID: date + "-a", Date: date},
			&domain.HabitCompletion{ID: date + "-b", Date: date},
		)
	}

	// Three distinct dates over seven days; duplicate completions on a
	// date count once.
	assert.InDelta(t, 3.0/7.0, consistencyScore(dc, 7), 0.001)
}

func TestMissedDays(t *testing.T) {
	dc := testContext("")
	assert.Equal(t, 1, missedDays(dc), "no completion yesterday counts as one missed day")

	today, _ := time.Parse("2006-01-02", dc.Today)
	yesterday := today.AddDate(0, 0, -1).Format("2006-01-02")
	dc.Completions = append(dc.Completions, &domain.HabitCompletion{
		StreakID: dc.Streaks[0].ID,
		Date:     yesterday,
	})
	assert.Equal(t, 0, missedDays(dc))

	dc.Streaks = nil
	assert.Equal(t, 0, missedDays(dc))
}
