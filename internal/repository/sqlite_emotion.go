package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// SQLiteEmotionRepo implements EmotionRepo using a SQLite database.
type SQLiteEmotionRepo struct {
	db db.DBTX
}

// NewSQLiteEmotionRepo creates a new SQLiteEmotionRepo.
func NewSQLiteEmotionRepo(conn db.DBTX) *SQLiteEmotionRepo {
	return &SQLiteEmotionRepo{db: conn}
}

func (r *SQLiteEmotionRepo) Upsert(ctx context.Context, c *domain.EmotionCheckin) error {
	// The (user_id, date) uniqueness makes a same-day check-in replace the
	// earlier one while keeping the original row id.
	query := `INSERT INTO emotion_checkins (id, user_id, emotion, notes, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			emotion = excluded.emotion,
			notes = excluded.notes,
			created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		string(c.Emotion),
		c.Notes,
		c.Date,
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting emotion check-in: %w", err)
	}
	return nil
}

func (r *SQLiteEmotionRepo) GetByDate(ctx context.Context, userID, date string) (*domain.EmotionCheckin, error) {
	query := `SELECT id, user_id, emotion, notes, date, created_at
		FROM emotion_checkins WHERE user_id = ? AND date = ?`
	row := r.db.QueryRowContext(ctx, query, userID, date)

	var c domain.EmotionCheckin
	var emotionStr, createdAtStr string
	err := row.Scan(&c.ID, &c.UserID, &emotionStr, &c.Notes, &c.Date, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("emotion check-in: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning emotion check-in: %w", err)
	}
	c.Emotion = domain.EmotionState(emotionStr)
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}

func (r *SQLiteEmotionRepo) ListSince(ctx context.Context, userID, date string) ([]*domain.EmotionCheckin, error) {
	query := `SELECT id, user_id, emotion, notes, date, created_at
		FROM emotion_checkins WHERE user_id = ? AND date >= ?
		ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing emotion check-ins: %w", err)
	}
	defer rows.Close()

	var checkins []*domain.EmotionCheckin
	for rows.Next() {
		var c domain.EmotionCheckin
		var emotionStr, createdAtStr string
		if err := rows.Scan(&c.ID, &c.UserID, &emotionStr, &c.Notes, &c.Date, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning emotion check-in row: %w", err)
		}
		c.Emotion = domain.EmotionState(emotionStr)
		c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		checkins = append(checkins, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating emotion check-ins: %w", err)
	}
	return checkins, nil
}
