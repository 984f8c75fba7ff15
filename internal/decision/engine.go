package decision

import (
	"context"
	"math"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/llm"
)

// Result pairs a validated decision with its generation telemetry.
type Result struct {
	Decision        *domain.Decision
	ModelUsed       string
	ExecutionTimeMs int64
	Fallback        bool
}

// Engine turns a gathered context into one validated decision. It never
// returns an error: any model or parsing failure yields the deterministic
// fallback instead.
type Engine struct {
	client llm.Client
	model  string
}

func NewEngine(client llm.Client, model string) *Engine {
	return &Engine{client: client, model: model}
}

// rawDecision is the JSON structure expected from the model, before
// validation.
type rawDecision struct {
	Action     string         `json:"action"`
	Reasoning  string         `json:"reasoning"`
	Confidence float64        `json:"confidence"`
	Parameters *rawParameters `json:"parameters"`
}

type rawParameters struct {
	NewDifficulty     *float64 `json:"new_difficulty"`
	NewStreakState    string   `json:"new_streak_state"`
	NotificationType  string   `json:"notification_type"`
	NotificationTone  string   `json:"notification_tone"`
	TaskModifications []struct {
		TaskID    string   `json:"task_id"`
		NewEffort *float64 `json:"new_effort"`
	} `json:"task_modifications"`
	HabitIDs  []string `json:"habit_ids"`
	StreakIDs []string `json:"streak_ids"`
}

// Decide produces a decision for the gathered context.
func (e *Engine) Decide(ctx context.Context, dc *Context) *Result {
	start := time.Now()
	m := deriveMetrics(dc)

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildUserPrompt(dc, m),
	})
	if err != nil {
		return &Result{
			Decision:        FallbackDecision(dc),
			ModelUsed:       e.model,
			ExecutionTimeMs: time.Since(start).Milliseconds(),
			Fallback:        true,
		}
	}

	raw, err := llm.ExtractJSON[rawDecision](resp.Text, nil)
	if err != nil {
		return &Result{
			Decision:        FallbackDecision(dc),
			ModelUsed:       resp.Model,
			ExecutionTimeMs: time.Since(start).Milliseconds(),
			Fallback:        true,
		}
	}

	return &Result{
		Decision:        validateDecision(raw, dc),
		ModelUsed:       resp.Model,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
}

// validateDecision cleans a parsed model reply into a decision whose every
// field is safe to execute. Invalid fields are dropped, never errored on.
func validateDecision(raw rawDecision, dc *Context) *domain.Decision {
	d := &domain.Decision{
		Action:     domain.DecisionAction(raw.Action),
		Reasoning:  raw.Reasoning,
		Confidence: clampConfidence(raw.Confidence),
	}
	if !domain.ValidDecisionActions[raw.Action] {
		d.Action = domain.ActionNoAction
	}
	if d.Reasoning == "" {
		d.Reasoning = "Default decision due to parsing error"
	}
	d.Parameters = validateParameters(raw.Parameters, dc)
	return d
}

func validateParameters(raw *rawParameters, dc *Context) *domain.DecisionParameters {
	if raw == nil {
		return nil
	}

	p := &domain.DecisionParameters{}

	if raw.NewDifficulty != nil {
		level := domain.ClampLevel(int(math.Round(*raw.NewDifficulty)))
		p.NewDifficulty = &level
	}
	if domain.ValidStreakStates[raw.NewStreakState] {
		p.NewStreakState = domain.StreakState(raw.NewStreakState)
	}
	if raw.NotificationType != "" {
		p.NotificationType = raw.NotificationType
	}
	if domain.ValidNotificationTones[raw.NotificationTone] {
		p.NotificationTone = domain.NotificationTone(raw.NotificationTone)
	}

	taskIDs := make(map[string]bool, len(dc.Tasks))
	for _, t := range dc.Tasks {
		taskIDs[t.ID] = true
	}
	for _, mod := range raw.TaskModifications {
		if mod.TaskID == "" || mod.NewEffort == nil || !taskIDs[mod.TaskID] {
			continue
		}
		p.TaskModifications = append(p.TaskModifications, domain.TaskModification{
			TaskID:    mod.TaskID,
			NewEffort: domain.ClampLevel(int(math.Round(*mod.NewEffort))),
		})
	}

	habitIDs := make(map[string]bool, len(dc.Habits))
	for _, h := range dc.Habits {
		habitIDs[h.ID] = true
	}
	for _, id := range raw.HabitIDs {
		if habitIDs[id] {
			p.HabitIDs = append(p.HabitIDs, id)
		}
	}
	streakIDs := make(map[string]bool, len(dc.Streaks))
	for _, s := range dc.Streaks {
		streakIDs[s.ID] = true
	}
	for _, id := range raw.StreakIDs {
		if streakIDs[id] {
			p.StreakIDs = append(p.StreakIDs, id)
		}
	}

	if p.Empty() {
		return nil
	}
	return p
}

func clampConfidence(c float64) float64 {
	if c == 0 {
		return 0.5
	}
	return math.Max(0, math.Min(1, c))
}

// metrics are the derived numbers the prompt surfaces alongside raw context.
type metrics struct {
	todayCompletions int
	recentEmotions   []string
	missedDays       int
	consistencyScore float64
}

func deriveMetrics(dc *Context) metrics {
	m := metrics{
		recentEmotions:   recentEmotions(dc.Analytics, 7),
		missedDays:       missedDays(dc),
		consistencyScore: consistencyScore(dc, 7),
	}
	for _, c := range dc.Completions {
		if c.Date == dc.Today {
			m.todayCompletions++
		}
	}
	return m
}

func recentEmotions(analytics []*domain.UserAnalytics, limit int) []string {
	var emotions []string
	for i := len(analytics) - 1; i >= 0 && len(emotions) < limit; i-- {
		if analytics[i].EmotionState != "" {
			emotions = append(emotions, string(analytics[i].EmotionState))
		}
	}
	return emotions
}

// missedDays reports whether the newest active streak went uncompleted
// yesterday: 1 if so, 0 otherwise. Streaks arrive newest first, so the
// most recently created streak is the one checked.
func missedDays(dc *Context) int {
	if len(dc.Streaks) == 0 {
		return 0
	}
	streak := dc.Streaks[0]

	today, err := time.Parse("2006-01-02", dc.Today)
	if err != nil {
		return 0
	}
	yesterday := today.AddDate(0, 0, -1).Format("2006-01-02")

	for _, c := range dc.Completions {
		if c.StreakID == streak.ID && c.Date == yesterday {
			return 0
		}
	}
	return 1
}

// consistencyScore is the fraction of the trailing window's days with at
// least one completion.
func consistencyScore(dc *Context, days int) float64 {
	if days == 0 {
		return 0
	}
	today, err := time.Parse("2006-01-02", dc.Today)
	if err != nil {
		return 0
	}

	completed := make(map[string]bool, len(dc.Completions))
	for _, c := range dc.Completions {
		completed[c.Date] = true
	}

	count := 0
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		if completed[date] {
			count++
		}
	}
	return float64(count) / float64(days)
}
