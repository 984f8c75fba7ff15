package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// analyticsColumns is the canonical SELECT column list for user_analytics.
const analyticsColumns = `id, user_id, date, total_habits_completed,
		total_tasks_completed, average_difficulty, emotion_state,
		streak_recovery_days, ai_interventions_count, created_at`

// SQLiteAnalyticsRepo implements AnalyticsRepo using a SQLite database.
type SQLiteAnalyticsRepo struct {
	db db.DBTX
}

// NewSQLiteAnalyticsRepo creates a new SQLiteAnalyticsRepo.
func NewSQLiteAnalyticsRepo(conn db.DBTX) *SQLiteAnalyticsRepo {
	return &SQLiteAnalyticsRepo{db: conn}
}

func (r *SQLiteAnalyticsRepo) GetByDate(ctx context.Context, userID, date string) (*domain.UserAnalytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM user_analytics
		WHERE user_id = ? AND date = ?`
	row := r.db.QueryRowContext(ctx, query, userID, date)

	a, err := scanAnalyticsRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("analytics row: %w", ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteAnalyticsRepo) Upsert(ctx context.Context, a *domain.UserAnalytics) error {
	query := `INSERT INTO user_analytics (id, user_id, date, total_habits_completed,
		total_tasks_completed, average_difficulty, emotion_state,
		streak_recovery_days, ai_interventions_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			total_habits_completed = excluded.total_habits_completed,
			total_tasks_completed = excluded.total_tasks_completed,
			average_difficulty = excluded.average_difficulty,
			emotion_state = excluded.emotion_state,
			streak_recovery_days = excluded.streak_recovery_days,
			ai_interventions_count = excluded.ai_interventions_count`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.Date,
		a.TotalHabitsCompleted,
		a.TotalTasksCompleted,
		a.AverageDifficulty,
		string(a.EmotionState),
		a.StreakRecoveryDays,
		a.AIInterventionsCount,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting analytics row: %w", err)
	}
	return nil
}

func (r *SQLiteAnalyticsRepo) ListSince(ctx context.Context, userID, date string) ([]*domain.UserAnalytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM user_analytics
		WHERE user_id = ? AND date >= ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing analytics rows: %w", err)
	}
	defer rows.Close()

	var results []*domain.UserAnalytics
	for rows.Next() {
		a, err := scanAnalyticsRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analytics rows: %w", err)
	}
	return results, nil
}

// scanAnalyticsRow scans one user_analytics row through a Scan function
// shared by *sql.Row and *sql.Rows.
func scanAnalyticsRow(scan func(dest ...interface{}) error) (*domain.UserAnalytics, error) {
	var a domain.UserAnalytics
	var emotionStr, createdAtStr string
	err := scan(
		&a.ID, &a.UserID, &a.Date, &a.TotalHabitsCompleted,
		&a.TotalTasksCompleted, &a.AverageDifficulty, &emotionStr,
		&a.StreakRecoveryDays, &a.AIInterventionsCount, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning analytics row: %w", err)
	}
	a.EmotionState = domain.EmotionState(emotionStr)
	a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &a, nil
}
