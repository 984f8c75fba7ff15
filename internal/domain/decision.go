package domain

import (
	"encoding/json"
	"time"
)

// Decision is the validated outcome of one decision-engine invocation.
// Immutable after creation: produced either from the generative model or
// from the deterministic fallback.
type Decision struct {
	Action     DecisionAction      `json:"action"`
	Reasoning  string              `json:"reasoning"`
	Confidence float64             `json:"confidence"` // 0-1
	Parameters *DecisionParameters `json:"parameters,omitempty"`
}

// DecisionParameters carries action-specific payloads. Which fields are
// meaningful depends on Decision.Action; validation drops anything the
// action cannot use. The optional HabitIDs/StreakIDs target lists narrow a
// pressure_adjustment or streak_state_change to specific entities; when
// absent the mutation applies to all active entities of the user.
type DecisionParameters struct {
	NewDifficulty     *int               `json:"new_difficulty,omitempty"`
	NewStreakState    StreakState        `json:"new_streak_state,omitempty"`
	NotificationType  string             `json:"notification_type,omitempty"`
	NotificationTone  NotificationTone   `json:"notification_tone,omitempty"`
	TaskModifications []TaskModification `json:"task_modifications,omitempty"`
	HabitIDs          []string           `json:"habit_ids,omitempty"`
	StreakIDs         []string           `json:"streak_ids,omitempty"`
}

// Empty reports whether no parameter field carries a value.
func (p *DecisionParameters) Empty() bool {
	if p == nil {
		return true
	}
	return p.NewDifficulty == nil &&
		p.NewStreakState == "" &&
		p.NotificationType == "" &&
		p.NotificationTone == "" &&
		len(p.TaskModifications) == 0 &&
		len(p.HabitIDs) == 0 &&
		len(p.StreakIDs) == 0
}

type TaskModification struct {
	TaskID    string `json:"task_id"`
	NewEffort int    `json:"new_effort"`
}

// DecisionOutcome summarizes what the executor did with a decision.
type DecisionOutcome struct {
	Success bool     `json:"success"`
	Actions []string `json:"actions,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// DecisionLog is the durable record of one decision. Created at logging
// time; mutated exactly once by the executor to attach ExecutedAt and
// Outcome.
type DecisionLog struct {
	ID              string
	UserID          string
	DecisionType    DecisionAction
	Context         json.RawMessage
	Decision        json.RawMessage
	PromptVersion   string
	ModelUsed       string
	ExecutionTimeMs int64
	CreatedAt       time.Time
	ExecutedAt      *time.Time
	Outcome         *DecisionOutcome
}
