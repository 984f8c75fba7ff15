package decision

import "github.com/anchorhq/anchor/internal/domain"

// FallbackDecision is the deterministic rule table used whenever the model
// is unavailable or its reply cannot be parsed. The rules only ever reduce
// pressure, so executing a fallback is always safe.
func FallbackDecision(dc *Context) *domain.Decision {
	if dc.Emotion != nil {
		switch dc.Emotion.Emotion {
		case domain.EmotionOverwhelmed:
			return &domain.Decision{
				Action:     domain.ActionStreakStateChange,
				Reasoning:  "User is overwhelmed, switching to recovery mode for reduced pressure",
				Confidence: 0.8,
				Parameters: &domain.DecisionParameters{
					NewStreakState: domain.StreakRecovery,
				},
			}
		case domain.EmotionLow:
			difficulty := 2
			return &domain.Decision{
				Action:     domain.ActionPressureAdjustment,
				Reasoning:  "User is feeling low, reducing difficulty to maintain engagement",
				Confidence: 0.7,
				Parameters: &domain.DecisionParameters{
					NewDifficulty: &difficulty,
				},
			}
		}
	}

	return &domain.Decision{
		Action:     domain.ActionNoAction,
		Reasoning:  "Maintaining current approach - no changes needed",
		Confidence: 0.6,
	}
}
