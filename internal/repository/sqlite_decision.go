package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/domain"
)

// decisionColumns is the canonical SELECT column list for ai_decisions.
const decisionColumns = `id, user_id, decision_type, context, decision,
		prompt_version, model_used, execution_time_ms, created_at, executed_at, outcome`

// SQLiteDecisionRepo implements DecisionRepo using a SQLite database.
type SQLiteDecisionRepo struct {
	db db.DBTX
}

// NewSQLiteDecisionRepo creates a new SQLiteDecisionRepo.
func NewSQLiteDecisionRepo(conn db.DBTX) *SQLiteDecisionRepo {
	return &SQLiteDecisionRepo{db: conn}
}

func (r *SQLiteDecisionRepo) Create(ctx context.Context, d *domain.DecisionLog) error {
	query := `INSERT INTO ai_decisions (id, user_id, decision_type, context, decision,
		prompt_version, model_used, execution_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.UserID,
		string(d.DecisionType),
		string(d.Context),
		string(d.Decision),
		d.PromptVersion,
		d.ModelUsed,
		d.ExecutionTimeMs,
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting decision log: %w", err)
	}
	return nil
}

func (r *SQLiteDecisionRepo) GetByID(ctx context.Context, userID, id string) (*domain.DecisionLog, error) {
	query := `SELECT ` + decisionColumns + ` FROM ai_decisions WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, userID)

	d, err := scanDecisionRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("decision log: %w", ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (r *SQLiteDecisionRepo) AttachOutcome(ctx context.Context, id string, executedAt time.Time, outcome *domain.DecisionOutcome) error {
	encoded, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encoding decision outcome: %w", err)
	}
	query := `UPDATE ai_decisions SET executed_at = ?, outcome = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, executedAt.UTC().Format(time.RFC3339), string(encoded), id)
	if err != nil {
		return fmt.Errorf("attaching decision outcome: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting updated decisions: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("decision log: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteDecisionRepo) ListRecent(ctx context.Context, userID string, limit int, decisionType string) ([]*domain.DecisionLog, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := `SELECT ` + decisionColumns + ` FROM ai_decisions WHERE user_id = ?`
	args := []interface{}{userID}
	if decisionType != "" {
		query += ` AND decision_type = ?`
		args = append(args, decisionType)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing decision logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.DecisionLog
	for rows.Next() {
		d, err := scanDecisionRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		logs = append(logs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decision logs: %w", err)
	}
	return logs, nil
}

// scanDecisionRow scans one ai_decisions row through a Scan function shared
// by *sql.Row and *sql.Rows.
func scanDecisionRow(scan func(dest ...interface{}) error) (*domain.DecisionLog, error) {
	var d domain.DecisionLog
	var decisionTypeStr, contextStr, decisionStr, createdAtStr string
	var executedAtStr, outcomeStr sql.NullString

	err := scan(
		&d.ID, &d.UserID, &decisionTypeStr, &contextStr, &decisionStr,
		&d.PromptVersion, &d.ModelUsed, &d.ExecutionTimeMs, &createdAtStr,
		&executedAtStr, &outcomeStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning decision log: %w", err)
	}

	d.DecisionType = domain.DecisionAction(decisionTypeStr)
	d.Context = json.RawMessage(contextStr)
	d.Decision = json.RawMessage(decisionStr)
	d.ExecutedAt = parseNullableTime(executedAtStr, time.RFC3339)
	if outcomeStr.Valid && outcomeStr.String != "" {
		var outcome domain.DecisionOutcome
		if err := json.Unmarshal([]byte(outcomeStr.String), &outcome); err != nil {
			return nil, fmt.Errorf("decoding decision outcome: %w", err)
		}
		d.Outcome = &outcome
	}
	d.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
