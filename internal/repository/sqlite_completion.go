package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// completionColumns is the canonical SELECT column list for habit_completions.
const completionColumns = `id, user_id, habit_id, streak_id, date,
		difficulty_completed, notes, completed_at`

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

// NewSQLiteCompletionRepo creates a new SQLiteCompletionRepo.
func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

func (r *SQLiteCompletionRepo) Create(ctx context.Context, c *domain.HabitCompletion) error {
	query := `INSERT INTO habit_completions (id, user_id, habit_id, streak_id, date,
		difficulty_completed, notes, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.HabitID,
		c.StreakID,
		c.Date,
		c.DifficultyCompleted,
		c.Notes,
		c.CompletedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("habit completion: %w", ErrDuplicate)
		}
		return fmt.Errorf("inserting habit completion: %w", err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) ListByDate(ctx context.Context, userID, date string) ([]*domain.HabitCompletion, error) {
	query := `SELECT ` + completionColumns + ` FROM habit_completions
		WHERE user_id = ? AND date = ? ORDER BY completed_at`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing habit completions by date: %w", err)
	}
	defer rows.Close()
	return r.scanCompletions(rows)
}

func (r *SQLiteCompletionRepo) ListSince(ctx context.Context, userID, date string) ([]*domain.HabitCompletion, error) {
	query := `SELECT ` + completionColumns + ` FROM habit_completions
		WHERE user_id = ? AND date >= ? ORDER BY date DESC, completed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing habit completions: %w", err)
	}
	defer rows.Close()
	return r.scanCompletions(rows)
}

func (r *SQLiteCompletionRepo) scanCompletions(rows *sql.Rows) ([]*domain.HabitCompletion, error) {
	var completions []*domain.HabitCompletion
	for rows.Next() {
		var c domain.HabitCompletion
		var completedAtStr string
		err := rows.Scan(
			&c.ID, &c.UserID, &c.HabitID, &c.StreakID, &c.Date,
			&c.DifficultyCompleted, &c.Notes, &completedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning habit completion row: %w", err)
		}
		c.CompletedAt, err = time.Parse(time.RFC3339, completedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		completions = append(completions, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habit completions: %w", err)
	}
	return completions, nil
}
