package api

import (
	"encoding/json"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/service"
)

const dateLayout = "2006-01-02"

type userResponse struct {
	ID                 string                          `json:"id"`
	Email              string                          `json:"email"`
	FullName           string                          `json:"full_name,omitempty"`
	Timezone           string                          `json:"timezone"`
	DefaultCheckinTime string                          `json:"default_checkin_time"`
	Notifications      domain.NotificationPreferences `json:"notification_preferences"`
	CreatedAt          time.Time                       `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		Timezone:           u.Timezone,
		DefaultCheckinTime: u.DefaultCheckinTime,
		Notifications:      u.Notifications,
		CreatedAt:          u.CreatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type streakResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	CurrentCount    int        `json:"current_count"`
	LongestCount    int        `json:"longest_count"`
	State           string     `json:"state"`
	IsActive        bool       `json:"is_active"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toStreakResponse(s *domain.Streak) streakResponse {
	return streakResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		CurrentCount:    s.CurrentCount,
		LongestCount:    s.LongestCount,
		State:           string(s.State),
		IsActive:        s.IsActive,
		LastCompletedAt: s.LastCompletedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func toStreakResponses(streaks []*domain.Streak) []streakResponse {
	out := make([]streakResponse, 0, len(streaks))
	for _, s := range streaks {
		out = append(out, toStreakResponse(s))
	}
	return out
}

type habitResponse struct {
	ID               string    `json:"id"`
	StreakID         string    `json:"streak_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	DifficultyLevel  int       `json:"difficulty_level"`
	DifficultyLabel  string    `json:"difficulty_label"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

func toHabitResponse(h *domain.Habit) habitResponse {
	return habitResponse{
		ID:               h.ID,
		StreakID:         h.StreakID,
		Title:            h.Title,
		Description:      h.Description,
		DifficultyLevel:  h.DifficultyLevel,
		DifficultyLabel:  domain.DifficultyLabels[h.DifficultyLevel],
		EstimatedMinutes: h.EstimatedMinutes,
		IsActive:         h.IsActive,
		CreatedAt:        h.CreatedAt,
	}
}

func toHabitResponses(habits []*domain.Habit) []habitResponse {
	out := make([]habitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, toHabitResponse(h))
	}
	return out
}

type taskResponse struct {
	ID              string     `json:"id"`
	HabitID         string     `json:"habit_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	EstimatedEffort int        `json:"estimated_effort"`
	EffortLabel     string     `json:"effort_label"`
	DueDate         string     `json:"due_date,omitempty"`
	IsCompleted     bool       `json:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:              t.ID,
		HabitID:         t.HabitID,
		Title:           t.Title,
		Description:     t.Description,
		EstimatedEffort: t.EstimatedEffort,
		EffortLabel:     domain.EffortLabels[t.EstimatedEffort],
		IsCompleted:     t.IsCompleted,
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
	}
	if t.DueDate != nil {
		resp.DueDate = t.DueDate.Format(dateLayout)
	}
	return resp
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

type checkinResponse struct {
	ID           string    `json:"id"`
	Emotion      string    `json:"emotion"`
	EmotionLabel string    `json:"emotion_label"`
	Notes        string    `json:"notes,omitempty"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

func toCheckinResponse(c *domain.EmotionCheckin) checkinResponse {
	return checkinResponse{
		ID:           c.ID,
		Emotion:      string(c.Emotion),
		EmotionLabel: domain.EmotionLabels[c.Emotion],
		Notes:        c.Notes,
		Date:         c.Date,
		CreatedAt:    c.CreatedAt,
	}
}

type completionResponse struct {
	ID                  string    `json:"id"`
	HabitID             string    `json:"habit_id"`
	StreakID            string    `json:"streak_id"`
	Date                string    `json:"date"`
	DifficultyCompleted int       `json:"difficulty_completed"`
	Notes               string    `json:"notes,omitempty"`
	CompletedAt         time.Time `json:"completed_at"`
}

func toCompletionResponse(c *domain.HabitCompletion) completionResponse {
	return completionResponse{
		ID:                  c.ID,
		HabitID:             c.HabitID,
		StreakID:            c.StreakID,
		Date:                c.Date,
		DifficultyCompleted: c.DifficultyCompleted,
		Notes:               c.Notes,
		CompletedAt:         c.CompletedAt,
	}
}

type rollupResponse struct {
	Date                 string  `json:"date"`
	TotalHabitsCompleted int     `json:"total_habits_completed"`
	TotalTasksCompleted  int     `json:"total_tasks_completed"`
	AverageDifficulty    float64 `json:"average_difficulty"`
	EmotionState         string  `json:"emotion_state,omitempty"`
	AIInterventionsCount int     `json:"ai_interventions_count"`
}

func toRollupResponses(rollups []*domain.UserAnalytics) []rollupResponse {
	out := make([]rollupResponse, 0, len(rollups))
	for _, a := range rollups {
		out = append(out, rollupResponse{
			Date:                 a.Date,
			TotalHabitsCompleted: a.TotalHabitsCompleted,
			TotalTasksCompleted:  a.TotalTasksCompleted,
			AverageDifficulty:    a.AverageDifficulty,
			EmotionState:         string(a.EmotionState),
			AIInterventionsCount: a.AIInterventionsCount,
		})
	}
	return out
}

type decisionLogResponse struct {
	ID              string                  `json:"id"`
	DecisionType    string                  `json:"decision_type"`
	Decision        json.RawMessage         `json:"decision"`
	PromptVersion   string                  `json:"prompt_version"`
	ModelUsed       string                  `json:"model_used,omitempty"`
	ExecutionTimeMs int64                   `json:"execution_time_ms"`
	CreatedAt       time.Time               `json:"created_at"`
	ExecutedAt      *time.Time              `json:"executed_at,omitempty"`
	Outcome         *domain.DecisionOutcome `json:"outcome,omitempty"`
}

func toDecisionLogResponse(d *domain.DecisionLog) decisionLogResponse {
	return decisionLogResponse{
		ID:              d.ID,
		DecisionType:    string(d.DecisionType),
		Decision:        d.Decision,
		PromptVersion:   d.PromptVersion,
		ModelUsed:       d.ModelUsed,
		ExecutionTimeMs: d.ExecutionTimeMs,
		CreatedAt:       d.CreatedAt,
		ExecutedAt:      d.ExecutedAt,
		Outcome:         d.Outcome,
	}
}

func toDecisionLogResponses(logs []*domain.DecisionLog) []decisionLogResponse {
	out := make([]decisionLogResponse, 0, len(logs))
	for _, d := range logs {
		out = append(out, toDecisionLogResponse(d))
	}
	return out
}

type processDecisionResponse struct {
	Action        string  `json:"action"`
	Reasoning     string  `json:"reasoning"`
	Confidence    float64 `json:"confidence"`
	Executed      bool    `json:"executed"`
	DecisionLogID string  `json:"decision_log_id"`
}

type insightsResponse struct {
	Consistency         float64              `json:"consistency"`
	EmotionalTrend      string               `json:"emotional_trend"`
	StreakHealth        string               `json:"streak_health"`
	Recommendations     []string             `json:"recommendations"`
	LastDecision        *decisionLogResponse `json:"last_decision,omitempty"`
	NextSuggestedAction string               `json:"next_suggested_action"`
}

func toInsightsResponse(report *service.InsightsReport) insightsResponse {
	resp := insightsResponse{
		Consistency:         report.Consistency,
		EmotionalTrend:      string(report.EmotionalTrend),
		StreakHealth:        string(report.StreakHealth),
		Recommendations:     report.Recommendations,
		NextSuggestedAction: report.NextSuggestedAction,
	}
	if report.Recommendations == nil {
		resp.Recommendations = []string{}
	}
	if report.LastDecision != nil {
		last := toDecisionLogResponse(report.LastDecision)
		resp.LastDecision = &last
	}
	return resp
}

type dashboardResponse struct {
	User              userResponse              `json:"user"`
	TodayCheckin      *checkinResponse          `json:"today_checkin,omitempty"`
	NeedsCheckin      bool                      `json:"needs_checkin"`
	ActiveStreaks     []streakResponse          `json:"active_streaks"`
	TodayHabits       []habitResponse           `json:"today_habits"`
	TodayTasks        []taskResponse            `json:"today_tasks"`
	RecentCompletions []completionResponse      `json:"recent_completions"`
	WeeklyAnalytics   []rollupResponse          `json:"weekly_analytics"`
	Insights          service.DashboardInsights `json:"insights"`
}

func toDashboardResponse(data *service.DashboardData) dashboardResponse {
	resp := dashboardResponse{
		User:              toUserResponse(data.User),
		NeedsCheckin:      data.NeedsCheckin,
		ActiveStreaks:     toStreakResponses(data.ActiveStreaks),
		TodayHabits:       toHabitResponses(data.TodayHabits),
		TodayTasks:        toTaskResponses(data.TodayTasks),
		RecentCompletions: make([]completionResponse, 0, len(data.RecentCompletions)),
		WeeklyAnalytics:   toRollupResponses(data.WeeklyAnalytics),
		Insights:          data.Insights,
	}
	if data.TodayCheckin != nil {
		checkin := toCheckinResponse(data.TodayCheckin)
		resp.TodayCheckin = &checkin
	}
	for _, c := range data.RecentCompletions {
		resp.RecentCompletions = append(resp.RecentCompletions, toCompletionResponse(c))
	}
	return resp
}
