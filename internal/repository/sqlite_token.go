package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/db"
)

// SQLiteTokenRepo implements TokenRepo using a SQLite database. Only token
// hashes are stored; the plaintext token never touches disk.
type SQLiteTokenRepo struct {
	db db.DBTX
}

// NewSQLiteTokenRepo creates a new SQLiteTokenRepo.
func NewSQLiteTokenRepo(conn db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: conn}
}

func (r *SQLiteTokenRepo) Create(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	query := `INSERT INTO api_tokens (token_hash, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tokenHash,
		userID,
		nowUTC(),
		expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting api token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) GetUserID(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	query := `SELECT user_id FROM api_tokens WHERE token_hash = ? AND expires_at > ?`
	var userID string
	err := r.db.QueryRowContext(ctx, query, tokenHash, now.UTC().Format(time.RFC3339)).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("api token: %w", ErrNotFound)
		}
		return "", fmt.Errorf("looking up api token: %w", err)
	}
	return userID, nil
}

func (r *SQLiteTokenRepo) Delete(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM api_tokens WHERE token_hash = ?`
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("deleting api token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	query := `DELETE FROM api_tokens WHERE expires_at <= ?`
	_, err := r.db.ExecContext(ctx, query, now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("deleting expired api tokens: %w", err)
	}
	return nil
}
