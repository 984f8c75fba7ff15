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

// userColumns is the canonical SELECT column list for users.
const userColumns = `id, email, password_hash, full_name, timezone,
		default_checkin_time, notification_prefs, onboarded_at, last_seen_at,
		created_at, updated_at`

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	prefs, err := json.Marshal(u.Notifications)
	if err != nil {
		return fmt.Errorf("encoding notification prefs: %w", err)
	}
	query := `INSERT INTO users (id, email, password_hash, full_name, timezone,
		default_checkin_time, notification_prefs, onboarded_at, last_seen_at,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Timezone,
		u.DefaultCheckinTime,
		string(prefs),
		nullableTimeToString(u.OnboardedAt, time.RFC3339),
		u.LastSeenAt.Format(time.RFC3339),
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user email: %w", ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	prefs, err := json.Marshal(u.Notifications)
	if err != nil {
		return fmt.Errorf("encoding notification prefs: %w", err)
	}
	query := `UPDATE users SET email = ?, password_hash = ?, full_name = ?,
		timezone = ?, default_checkin_time = ?, notification_prefs = ?,
		onboarded_at = ?, last_seen_at = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Timezone,
		u.DefaultCheckinTime,
		string(prefs),
		nullableTimeToString(u.OnboardedAt, time.RFC3339),
		u.LastSeenAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_seen_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching last seen: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var prefsStr string
	var onboardedAtStr sql.NullString
	var lastSeenStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Timezone,
		&u.DefaultCheckinTime, &prefsStr, &onboardedAtStr, &lastSeenStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Notifications = domain.DefaultNotificationPreferences()
	if prefsStr != "" && prefsStr != "{}" {
		if err := json.Unmarshal([]byte(prefsStr), &u.Notifications); err != nil {
			return nil, fmt.Errorf("decoding notification prefs: %w", err)
		}
	}
	u.OnboardedAt = parseNullableTime(onboardedAtStr, time.RFC3339)

	var parseErr error
	u.LastSeenAt, parseErr = time.Parse(time.RFC3339, lastSeenStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing last_seen_at: %w", parseErr)
	}
	u.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	u.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &u, nil
}
