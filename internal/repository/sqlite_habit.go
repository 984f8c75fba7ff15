package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// habitColumns is the canonical SELECT column list for habits.
const habitColumns = `id, user_id, streak_id, title, description,
		difficulty_level, estimated_minutes, is_active, created_at, updated_at`

// SQLiteHabitRepo implements HabitRepo using a SQLite database.
type SQLiteHabitRepo struct {
	db db.DBTX
}

// NewSQLiteHabitRepo creates a new SQLiteHabitRepo.
func NewSQLiteHabitRepo(conn db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: conn}
}

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	query := `INSERT INTO habits (id, user_id, streak_id, title, description,
		difficulty_level, estimated_minutes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.UserID,
		h.StreakID,
		h.Title,
		h.Description,
		h.DifficultyLevel,
		h.EstimatedMinutes,
		boolToInt(h.IsActive),
		h.CreatedAt.Format(time.RFC3339),
		h.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, userID, id string) (*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = ? AND user_id = ?`
	return r.scanHabit(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteHabitRepo) List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return r.scanHabits(rows)
}

func (r *SQLiteHabitRepo) ListByStreak(ctx context.Context, userID, streakID string) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = ? AND streak_id = ? AND is_active = 1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, streakID)
	if err != nil {
		return nil, fmt.Errorf("listing habits by streak: %w", err)
	}
	defer rows.Close()
	return r.scanHabits(rows)
}

func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	query := `UPDATE habits SET streak_id = ?, title = ?, description = ?,
		difficulty_level = ?, estimated_minutes = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		h.StreakID,
		h.Title,
		h.Description,
		h.DifficultyLevel,
		h.EstimatedMinutes,
		boolToInt(h.IsActive),
		h.UpdatedAt.Format(time.RFC3339),
		h.ID,
		h.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) UpdateDifficulty(ctx context.Context, userID string, level int, ids []string) (int64, error) {
	now := nowUTC()
	var res sql.Result
	var err error
	if len(ids) == 0 {
		query := `UPDATE habits SET difficulty_level = ?, updated_at = ?
			WHERE user_id = ? AND is_active = 1`
		res, err = r.db.ExecContext(ctx, query, level, now, userID)
	} else {
		placeholders := strings.Repeat("?,", len(ids)-1) + "?"
		query := `UPDATE habits SET difficulty_level = ?, updated_at = ?
			WHERE user_id = ? AND id IN (` + placeholders + `)`
		args := make([]interface{}, 0, len(ids)+3)
		args = append(args, level, now, userID)
		for _, id := range ids {
			args = append(args, id)
		}
		res, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("updating habit difficulty: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated habits: %w", err)
	}
	return n, nil
}

func (r *SQLiteHabitRepo) Deactivate(ctx context.Context, userID, id string) error {
	query := `UPDATE habits SET is_active = 0, updated_at = ? WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, nowUTC(), id, userID)
	if err != nil {
		return fmt.Errorf("deactivating habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) scanHabit(row *sql.Row) (*domain.Habit, error) {
	var h domain.Habit
	var isActiveInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&h.ID, &h.UserID, &h.StreakID, &h.Title, &h.Description,
		&h.DifficultyLevel, &h.EstimatedMinutes, &isActiveInt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	return r.populateHabit(&h, isActiveInt, createdAtStr, updatedAtStr)
}

func (r *SQLiteHabitRepo) scanHabits(rows *sql.Rows) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	for rows.Next() {
		var h domain.Habit
		var isActiveInt int
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&h.ID, &h.UserID, &h.StreakID, &h.Title, &h.Description,
			&h.DifficultyLevel, &h.EstimatedMinutes, &isActiveInt, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning habit row: %w", err)
		}
		habit, err := r.populateHabit(&h, isActiveInt, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}
	return habits, nil
}

func (r *SQLiteHabitRepo) populateHabit(h *domain.Habit, isActiveInt int, createdAtStr, updatedAtStr string) (*domain.Habit, error) {
	h.IsActive = intToBool(isActiveInt)

	var parseErr error
	h.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	h.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return h, nil
}
