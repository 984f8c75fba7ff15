package domain

type EmotionState string

const (
	EmotionEnergized   EmotionState = "energized"
	EmotionOkay        EmotionState = "okay"
	EmotionLow         EmotionState = "low"
	EmotionOverwhelmed EmotionState = "overwhelmed"
)

// ValidEmotionStates is the canonical set of accepted emotion strings.
var ValidEmotionStates = map[string]bool{
	"energized": true, "okay": true, "low": true, "overwhelmed": true,
}

type StreakState string

const (
	StreakNormal    StreakState = "normal"
	StreakRecovery  StreakState = "recovery"
	StreakProtected StreakState = "protected"
)

// ValidStreakStates is the canonical set of accepted streak state strings.
var ValidStreakStates = map[string]bool{
	"normal": true, "recovery": true, "protected": true,
}

type DecisionAction string

const (
	ActionPressureAdjustment DecisionAction = "pressure_adjustment"
	ActionNotification       DecisionAction = "notification"
	ActionStreakStateChange  DecisionAction = "streak_state_change"
	ActionTaskModification   DecisionAction = "task_modification"
	ActionNoAction           DecisionAction = "no_action"
)

// ValidDecisionActions is the canonical set of accepted decision actions.
var ValidDecisionActions = map[string]bool{
	"pressure_adjustment": true, "notification": true,
	"streak_state_change": true, "task_modification": true,
	"no_action": true,
}

type NotificationTone string

const (
	ToneSupportive  NotificationTone = "supportive"
	ToneEncouraging NotificationTone = "encouraging"
	ToneGentle      NotificationTone = "gentle"
)

// ValidNotificationTones is the canonical set of accepted notification tones.
var ValidNotificationTones = map[string]bool{
	"supportive": true, "encouraging": true, "gentle": true,
}

type EmotionalTrend string

const (
	TrendImproving EmotionalTrend = "improving"
	TrendStable    EmotionalTrend = "stable"
	TrendDeclining EmotionalTrend = "declining"
	TrendUnknown   EmotionalTrend = "unknown"
)

type StreakHealth string

const (
	HealthExcellent      StreakHealth = "excellent"
	HealthGood           StreakHealth = "good"
	HealthNeedsAttention StreakHealth = "needs_attention"
	HealthNone           StreakHealth = "none"
)

// EmotionLabels maps emotion states to display labels.
var EmotionLabels = map[EmotionState]string{
	EmotionEnergized:   "Energized",
	EmotionOkay:        "Okay",
	EmotionLow:         "Low",
	EmotionOverwhelmed: "Overwhelmed",
}

// DifficultyLabels maps 1-5 difficulty levels to display labels.
var DifficultyLabels = map[int]string{
	1: "Very Easy",
	2: "Easy",
	3: "Medium",
	4: "Hard",
	5: "Very Hard",
}

// EffortLabels maps 1-5 effort levels to display labels.
var EffortLabels = map[int]string{
	1: "Minimal",
	2: "Light",
	3: "Moderate",
	4: "Significant",
	5: "Intense",
}
