package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/service"
)

// ErrRateLimited is returned when a user triggers decisions faster than
// the per-user budget allows.
var ErrRateLimited = errors.New("decision rate limit exceeded")

// ProcessResult is what a decision trigger returns to the caller.
type ProcessResult struct {
	Decision      *domain.Decision
	Executed      bool
	DecisionLogID string
}

// Service orchestrates one full decision cycle: gather context, decide,
// log, execute, attach the outcome. Processing is serialized per user so
// two concurrent triggers cannot interleave their mutations.
type Service struct {
	aggregator *Aggregator
	engine     *Engine
	executor   *Executor
	decisions  repository.DecisionRepo
	analytics  repository.AnalyticsRepo
	observer   service.UseCaseObserver

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	limiters map[string]*rate.Limiter
}

// Per-user trigger budget: one sustained decision per 30 seconds with a
// small burst for catch-up.
const (
	triggerInterval = 30 * time.Second
	triggerBurst    = 3
)

func NewService(
	aggregator *Aggregator,
	engine *Engine,
	executor *Executor,
	decisions repository.DecisionRepo,
	analytics repository.AnalyticsRepo,
	observer service.UseCaseObserver,
) *Service {
	if observer == nil {
		observer = service.NoopUseCaseObserver{}
	}
	return &Service{
		aggregator: aggregator,
		engine:     engine,
		executor:   executor,
		decisions:  decisions,
		analytics:  analytics,
		observer:   observer,
		locks:      make(map[string]*sync.Mutex),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// ProcessUserDecision runs one decision cycle for the user.
func (s *Service) ProcessUserDecision(ctx context.Context, userID string) (*ProcessResult, error) {
	if !s.limiter(userID).Allow() {
		return nil, ErrRateLimited
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	result, err := s.process(ctx, userID)
	s.observer.ObserveUseCase(ctx, service.UseCaseEvent{
		Name:      "decision.process",
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    processFields(userID, result),
		StartedAt: start,
	})
	return result, err
}

func (s *Service) process(ctx context.Context, userID string) (*ProcessResult, error) {
	dc, err := s.aggregator.Gather(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gathering decision context: %w", err)
	}

	res := s.engine.Decide(ctx, dc)

	logID, err := s.logDecision(ctx, userID, dc, res)
	if err != nil {
		return nil, fmt.Errorf("logging decision: %w", err)
	}

	outcome, executed := s.executor.Execute(ctx, userID, res.Decision, logID)
	if err := s.decisions.AttachOutcome(ctx, logID, time.Now().UTC(), outcome); err != nil {
		return nil, fmt.Errorf("attaching decision outcome: %w", err)
	}

	if executed && res.Decision.Action != domain.ActionNoAction {
		s.countIntervention(ctx, userID, dc.Today)
	}

	return &ProcessResult{
		Decision:      res.Decision,
		Executed:      executed,
		DecisionLogID: logID,
	}, nil
}

func (s *Service) logDecision(ctx context.Context, userID string, dc *Context, res *Result) (string, error) {
	contextJSON, err := json.Marshal(dc)
	if err != nil {
		return "", fmt.Errorf("encoding context: %w", err)
	}
	decisionJSON, err := json.Marshal(res.Decision)
	if err != nil {
		return "", fmt.Errorf("encoding decision: %w", err)
	}

	log := &domain.DecisionLog{
		ID:              uuid.New().String(),
		UserID:          userID,
		DecisionType:    res.Decision.Action,
		Context:         contextJSON,
		Decision:        decisionJSON,
		PromptVersion:   PromptVersion,
		ModelUsed:       res.ModelUsed,
		ExecutionTimeMs: res.ExecutionTimeMs,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.decisions.Create(ctx, log); err != nil {
		return "", err
	}
	return log.ID, nil
}

// countIntervention bumps the ai_interventions counter on the day's
// analytics rollup. Rollup bookkeeping never fails a decision cycle.
func (s *Service) countIntervention(ctx context.Context, userID, date string) {
	a, err := s.analytics.GetByDate(ctx, userID, date)
	if errors.Is(err, repository.ErrNotFound) {
		a = &domain.UserAnalytics{
			ID:        uuid.New().String(),
			UserID:    userID,
			Date:      date,
			CreatedAt: time.Now().UTC(),
		}
	} else if err != nil {
		return
	}
	a.AIInterventionsCount++
	_ = s.analytics.Upsert(ctx, a)
}

// ListDecisions returns the user's most recent decisions, optionally
// filtered by action.
func (s *Service) ListDecisions(ctx context.Context, userID string, limit int, decisionType string) ([]*domain.DecisionLog, error) {
	if decisionType != "" && !domain.ValidDecisionActions[decisionType] {
		return nil, fmt.Errorf("invalid decision type %q", decisionType)
	}
	return s.decisions.ListRecent(ctx, userID, limit, decisionType)
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *Service) limiter(userID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(triggerInterval), triggerBurst)
		s.limiters[userID] = lim
	}
	return lim
}

func processFields(userID string, result *ProcessResult) map[string]any {
	fields := map[string]any{"user_id": userID}
	if result != nil {
		fields["action"] = string(result.Decision.Action)
		fields["executed"] = result.Executed
	}
	return fields
}
