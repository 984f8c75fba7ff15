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

// streakColumns is the canonical SELECT column list for streaks.
const streakColumns = `id, user_id, title, description, current_count, longest_count,
		state, is_active, last_completed_at, created_at, updated_at`

// SQLiteStreakRepo implements StreakRepo using a SQLite database.
type SQLiteStreakRepo struct {
	db db.DBTX
}

// NewSQLiteStreakRepo creates a new SQLiteStreakRepo.
func NewSQLiteStreakRepo(conn db.DBTX) *SQLiteStreakRepo {
	return &SQLiteStreakRepo{db: conn}
}

func (r *SQLiteStreakRepo) Create(ctx context.Context, s *domain.Streak) error {
	query := `INSERT INTO streaks (id, user_id, title, description, current_count,
		longest_count, state, is_active, last_completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.Title,
		s.Description,
		s.CurrentCount,
		s.LongestCount,
		string(s.State),
		boolToInt(s.IsActive),
		nullableTimeToString(s.LastCompletedAt, time.RFC3339),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting streak: %w", err)
	}
	return nil
}

func (r *SQLiteStreakRepo) GetByID(ctx context.Context, userID, id string) (*domain.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE id = ? AND user_id = ?`
	return r.scanStreak(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteStreakRepo) List(ctx context.Context, userID string, includeInactive bool) ([]*domain.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE user_id = ?`
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing streaks: %w", err)
	}
	defer rows.Close()
	return r.scanStreaks(rows)
}

func (r *SQLiteStreakRepo) Update(ctx context.Context, s *domain.Streak) error {
	query := `UPDATE streaks SET title = ?, description = ?, current_count = ?,
		longest_count = ?, state = ?, is_active = ?, last_completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Title,
		s.Description,
		s.CurrentCount,
		s.LongestCount,
		string(s.State),
		boolToInt(s.IsActive),
		nullableTimeToString(s.LastCompletedAt, time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
		s.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating streak: %w", err)
	}
	return nil
}

func (r *SQLiteStreakRepo) UpdateState(ctx context.Context, userID string, state domain.StreakState, ids []string) (int64, error) {
	now := nowUTC()
	var res sql.Result
	var err error
	if len(ids) == 0 {
		query := `UPDATE streaks SET state = ?, updated_at = ?
			WHERE user_id = ? AND is_active = 1`
		res, err = r.db.ExecContext(ctx, query, string(state), now, userID)
	} else {
		placeholders := strings.Repeat("?,", len(ids)-1) + "?"
		query := `UPDATE streaks SET state = ?, updated_at = ?
			WHERE user_id = ? AND id IN (` + placeholders + `)`
		args := make([]interface{}, 0, len(ids)+3)
		args = append(args, string(state), now, userID)
		for _, id := range ids {
			args = append(args, id)
		}
		res, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("updating streak state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated streaks: %w", err)
	}
	return n, nil
}

func (r *SQLiteStreakRepo) Deactivate(ctx context.Context, userID, id string) error {
	query := `UPDATE streaks SET is_active = 0, updated_at = ? WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, nowUTC(), id, userID)
	if err != nil {
		return fmt.Errorf("deactivating streak: %w", err)
	}
	return nil
}

func (r *SQLiteStreakRepo) scanStreak(row *sql.Row) (*domain.Streak, error) {
	var s domain.Streak
	var stateStr string
	var isActiveInt int
	var lastCompletedStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.CurrentCount, &s.LongestCount,
		&stateStr, &isActiveInt, &lastCompletedStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("streak: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning streak: %w", err)
	}
	return r.populateStreak(&s, stateStr, isActiveInt, lastCompletedStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteStreakRepo) scanStreaks(rows *sql.Rows) ([]*domain.Streak, error) {
	var streaks []*domain.Streak
	for rows.Next() {
		var s domain.Streak
		var stateStr string
		var isActiveInt int
		var lastCompletedStr sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.CurrentCount, &s.LongestCount,
			&stateStr, &isActiveInt, &lastCompletedStr, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning streak row: %w", err)
		}
		streak, err := r.populateStreak(&s, stateStr, isActiveInt, lastCompletedStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		streaks = append(streaks, streak)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating streaks: %w", err)
	}
	return streaks, nil
}

func (r *SQLiteStreakRepo) populateStreak(
	s *domain.Streak,
	stateStr string,
	isActiveInt int,
	lastCompletedStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.Streak, error) {
	s.State = domain.StreakState(stateStr)
	s.IsActive = intToBool(isActiveInt)
	s.LastCompletedAt = parseNullableTime(lastCompletedStr, time.RFC3339)

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return s, nil
}
