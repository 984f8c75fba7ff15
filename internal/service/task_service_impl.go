package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
)

type taskService struct {
	users repository.UserRepo
	tasks repository.TaskRepo
	uow   db.UnitOfWork
}

func NewTaskService(users repository.UserRepo, tasks repository.TaskRepo, uow db.UnitOfWork) TaskService {
	return &taskService{users: users, tasks: tasks, uow: uow}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.EstimatedEffort == 0 {
		t.EstimatedEffort = 3
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := t.Validate(); err != nil {
		return invalid(err)
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) List(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Task, error) {
	return s.tasks.List(ctx, userID, includeCompleted)
}

func (s *taskService) Complete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var completed *domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txAnalytics := repository.NewSQLiteAnalyticsRepo(tx)

		if err := txTasks.Complete(ctx, userID, taskID, now); err != nil {
			return err
		}
		t, err := txTasks.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}
		completed = t

		return upsertRollup(ctx, txAnalytics, userID, userToday(u), func(a *domain.UserAnalytics) {
			a.TotalTasksCompleted++
		})
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *taskService) Delete(ctx context.Context, userID, id string) error {
	return s.tasks.Delete(ctx, userID, id)
}
