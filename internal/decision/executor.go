package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

// Executor applies a validated decision to the user's data. Every mutation
// is an absolute assignment, so re-executing the same decision converges
// instead of compounding.
type Executor struct {
	streaks       repository.StreakRepo
	habits        repository.HabitRepo
	tasks         repository.TaskRepo
	notifications repository.NotificationRepo
}

func NewExecutor(
	streaks repository.StreakRepo,
	habits repository.HabitRepo,
	tasks repository.TaskRepo,
	notifications repository.NotificationRepo,
) *Executor {
	return &Executor{
		streaks:       streaks,
		habits:        habits,
		tasks:         tasks,
		notifications: notifications,
	}
}

// Execute applies the decision for the user and returns the outcome plus
// whether execution succeeded. Failures are captured in the outcome, never
// returned as errors.
func (e *Executor) Execute(ctx context.Context, userID string, d *domain.Decision, decisionLogID string) (*domain.DecisionOutcome, bool) {
	outcome := &domain.DecisionOutcome{Success: true}

	err := e.apply(ctx, userID, d, decisionLogID, outcome)
	if err != nil {
		return &domain.DecisionOutcome{Success: false, Error: err.Error()}, false
	}
	return outcome, true
}

func (e *Executor) apply(ctx context.Context, userID string, d *domain.Decision, decisionLogID string, outcome *domain.DecisionOutcome) error {
	switch d.Action {
	case domain.ActionPressureAdjustment:
		if d.Parameters != nil && d.Parameters.NewDifficulty != nil {
			_, err := e.habits.UpdateDifficulty(ctx, userID, *d.Parameters.NewDifficulty, d.Parameters.HabitIDs)
			if err != nil {
				return fmt.Errorf("adjusting habit difficulty: %w", err)
			}
			outcome.Actions = append(outcome.Actions, "difficulty_adjusted")
		}

	case domain.ActionStreakStateChange:
		if d.Parameters != nil && d.Parameters.NewStreakState != "" {
			_, err := e.streaks.UpdateState(ctx, userID, d.Parameters.NewStreakState, d.Parameters.StreakIDs)
			if err != nil {
				return fmt.Errorf("changing streak state: %w", err)
			}
			outcome.Actions = append(outcome.Actions, "streak_state_changed")
		}

	case domain.ActionNotification:
		if d.Parameters != nil && d.Parameters.NotificationType != "" {
			id, err := e.sendNotification(ctx, userID, d, decisionLogID)
			if err != nil {
				return fmt.Errorf("sending notification: %w", err)
			}
			outcome.Actions = append(outcome.Actions, "notification_sent:"+id)
		}

	case domain.ActionTaskModification:
		if d.Parameters != nil && len(d.Parameters.TaskModifications) > 0 {
			for _, mod := range d.Parameters.TaskModifications {
				if err := e.tasks.UpdateEffort(ctx, userID, mod.TaskID, mod.NewEffort); err != nil {
					return fmt.Errorf("modifying task %s: %w", mod.TaskID, err)
				}
			}
			outcome.Actions = append(outcome.Actions, "tasks_modified")
		}

	case domain.ActionNoAction:
		outcome.Actions = append(outcome.Actions, "no_action_taken")

	default:
		return fmt.Errorf("unknown decision action %q", d.Action)
	}
	return nil
}

func (e *Executor) sendNotification(ctx context.Context, userID string, d *domain.Decision, decisionLogID string) (string, error) {
	subject, content := NotificationContent(d)

	n := &domain.Notification{
		ID:             uuid.New().String(),
		UserID:         userID,
		AIDecisionID:   decisionLogID,
		Type:           d.Parameters.NotificationType,
		Subject:        subject,
		Content:        content,
		DeliveryStatus: domain.DeliveryPending,
		SentAt:         time.Now().UTC(),
	}
	if err := e.notifications.Create(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}
