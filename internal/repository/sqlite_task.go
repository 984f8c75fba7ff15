package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, user_id, habit_id, title, description, estimated_effort,
		due_date, is_completed, completed_at, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	var habitID interface{}
	if t.HabitID != "" {
		habitID = t.HabitID
	}
	query := `INSERT INTO tasks (id, user_id, habit_id, title, description,
		estimated_effort, due_date, is_completed, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		habitID,
		t.Title,
		t.Description,
		t.EstimatedEffort,
		nullableTimeToString(t.DueDate, dateLayout),
		boolToInt(t.IsCompleted),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteTaskRepo) List(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	if !includeCompleted {
		query += ` AND is_completed = 0`
	}
	query += ` ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListOpenForDate(ctx context.Context, userID, date string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND is_completed = 0
		  AND (due_date IS NULL OR due_date = ?)
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing open tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	var habitID interface{}
	if t.HabitID != "" {
		habitID = t.HabitID
	}
	query := `UPDATE tasks SET habit_id = ?, title = ?, description = ?,
		estimated_effort = ?, due_date = ?, is_completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		habitID,
		t.Title,
		t.Description,
		t.EstimatedEffort,
		nullableTimeToString(t.DueDate, dateLayout),
		boolToInt(t.IsCompleted),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) UpdateEffort(ctx context.Context, userID, id string, effort int) error {
	query := `UPDATE tasks SET estimated_effort = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, effort, nowUTC(), id, userID)
	if err != nil {
		return fmt.Errorf("updating task effort: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Complete(ctx context.Context, userID, id string, at time.Time) error {
	query := `UPDATE tasks SET is_completed = 1, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, at.UTC().Format(time.RFC3339), nowUTC(), id, userID)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting completed tasks: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var habitIDStr, dueDateStr, completedAtStr sql.NullString
	var isCompletedInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.UserID, &habitIDStr, &t.Title, &t.Description, &t.EstimatedEffort,
		&dueDateStr, &isCompletedInt, &completedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return r.populateTask(&t, habitIDStr, dueDateStr, completedAtStr, isCompletedInt, createdAtStr, updatedAtStr)
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var habitIDStr, dueDateStr, completedAtStr sql.NullString
		var isCompletedInt int
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&t.ID, &t.UserID, &habitIDStr, &t.Title, &t.Description, &t.EstimatedEffort,
			&dueDateStr, &isCompletedInt, &completedAtStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task, err := r.populateTask(&t, habitIDStr, dueDateStr, completedAtStr, isCompletedInt, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) populateTask(
	t *domain.Task,
	habitIDStr, dueDateStr, completedAtStr sql.NullString,
	isCompletedInt int,
	createdAtStr, updatedAtStr string,
) (*domain.Task, error) {
	if habitIDStr.Valid {
		t.HabitID = habitIDStr.String
	}
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	t.IsCompleted = intToBool(isCompletedInt)
	t.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return t, nil
}
