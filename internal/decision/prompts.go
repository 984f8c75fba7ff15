package decision

import (
	"fmt"
	"strings"
)

// PromptVersion tags every logged decision with the prompt revision that
// produced it, for later evaluation across revisions.
const PromptVersion = "core_v1.0"

const systemPrompt = `You are Anchor's decision engine. Your role is to make supportive, emotion-aware decisions for users building productive habits without guilt or burnout.

DECISION PRINCIPLES:
1. NEVER use guilt, shame, or fear-based messaging
2. Optimize for long-term consistency over short-term intensity
3. Adapt pressure based on emotional state:
   - Energized: Can handle normal/higher difficulty
   - Okay: Maintain current approach
   - Low: Reduce pressure, offer easier alternatives
   - Overwhelmed: Enter recovery mode, minimal pressure
4. Use streak states strategically:
   - Normal: Regular pressure and expectations
   - Recovery: Lower expectations, focus on showing up
   - Protected: Maintain streak even with minimal effort
5. Be supportive, not pushy

DECISION OPTIONS:
1. pressure_adjustment: Modify habit difficulty or task effort
2. streak_state_change: Change streak state (normal/recovery/protected)
3. notification: Send supportive email
4. task_modification: Adjust today's task estimates
5. no_action: Sometimes the best action is no action

Respond with a decision in this JSON format:
{
  "action": "pressure_adjustment|notification|streak_state_change|task_modification|no_action",
  "reasoning": "Clear explanation of why this decision was made",
  "confidence": 0.85,
  "parameters": {
    "new_difficulty": 2,
    "new_streak_state": "recovery",
    "notification_type": "gentle_encouragement",
    "notification_tone": "supportive",
    "task_modifications": [
      {"task_id": "uuid", "new_effort": 2}
    ],
    "habit_ids": ["uuid"],
    "streak_ids": ["uuid"]
  }
}

The optional habit_ids and streak_ids lists narrow a pressure_adjustment
or streak_state_change to specific entities; omit them to apply the
change to all active ones.`

// buildUserPrompt renders the gathered context and derived metrics into
// the prompt body.
func buildUserPrompt(dc *Context, m metrics) string {
	var b strings.Builder

	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- User: %s (timezone: %s)\n", dc.User.Email, dc.User.Timezone)
	if dc.Emotion != nil {
		fmt.Fprintf(&b, "- Current emotion: %s", dc.Emotion.Emotion)
		if dc.Emotion.Notes != "" {
			fmt.Fprintf(&b, " (notes: %s)", dc.Emotion.Notes)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("- Current emotion: unknown\n")
	}
	fmt.Fprintf(&b, "- Recent emotions (7 days): [%s]\n", strings.Join(m.recentEmotions, ", "))
	fmt.Fprintf(&b, "- Active streaks: %d\n", len(dc.Streaks))
	fmt.Fprintf(&b, "- Today's completions: %d\n", m.todayCompletions)
	fmt.Fprintf(&b, "- Missed days in current streak: %d\n", m.missedDays)
	fmt.Fprintf(&b, "- 7-day consistency score: %.2f\n", m.consistencyScore)

	b.WriteString("\nCURRENT STREAKS:\n")
	for _, s := range dc.Streaks {
		fmt.Fprintf(&b, "- %q: %d days (longest: %d), state: %s, id: %s\n",
			s.Title, s.CurrentCount, s.LongestCount, s.State, s.ID)
	}

	b.WriteString("\nACTIVE HABITS:\n")
	for _, h := range dc.Habits {
		fmt.Fprintf(&b, "- %q: difficulty %d/5, %d min, id: %s\n",
			h.Title, h.DifficultyLevel, h.EstimatedMinutes, h.ID)
	}

	b.WriteString("\nTODAY'S TASKS:\n")
	for _, t := range dc.Tasks {
		fmt.Fprintf(&b, "- %q: effort %d/5, id: %s\n", t.Title, t.EstimatedEffort, t.ID)
	}

	b.WriteString("\nMake a decision now based on the current context.\n")
	return b.String()
}
