package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	var decisionID interface{}
	if n.AIDecisionID != "" {
		decisionID = n.AIDecisionID
	}
	query := `INSERT INTO notifications (id, user_id, ai_decision_id, type, subject,
		content, delivery_status, sent_at, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		decisionID,
		n.Type,
		n.Subject,
		n.Content,
		n.DeliveryStatus,
		n.SentAt.Format(time.RFC3339),
		nullableTimeToString(n.OpenedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	query := `SELECT id, user_id, ai_decision_id, type, subject, content,
		delivery_status, sent_at, opened_at
		FROM notifications WHERE user_id = ?
		ORDER BY sent_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var decisionIDStr, openedAtStr sql.NullString
		var sentAtStr string
		err := rows.Scan(
			&n.ID, &n.UserID, &decisionIDStr, &n.Type, &n.Subject, &n.Content,
			&n.DeliveryStatus, &sentAtStr, &openedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		if decisionIDStr.Valid {
			n.AIDecisionID = decisionIDStr.String
		}
		n.OpenedAt = parseNullableTime(openedAtStr, time.RFC3339)
		n.SentAt, err = time.Parse(time.RFC3339, sentAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing sent_at: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return notifications, nil
}
