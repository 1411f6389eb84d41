package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Password is a bare secret (no username) filed under a per-user label,
// with the same upsert-by-label rule as Credential.
type Password struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertPassword creates or overwrites the password with the given label.
func (db *DB) UpsertPassword(ctx context.Context, userID, label, value string) error {
	return upsertPassword(ctx, db.DB, userID, label, value)
}

func upsertPassword(ctx context.Context, e execer, userID, label, value string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateLabel(label); err != nil {
		return err
	}
	if err := validateValue("password", value); err != nil {
		return err
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_passwords (user_id, label, password)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, label) DO UPDATE SET
			password=excluded.password, created_at=CURRENT_TIMESTAMP`,
		userID, label, value,
	)
	return err
}

// GetPassword retrieves a password by label, case-insensitively.
func (db *DB) GetPassword(ctx context.Context, userID, label string) (*Password, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	var p Password
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, label, password, created_at
		 FROM user_passwords WHERE user_id = ? AND label = ?`,
		userID, label,
	).Scan(&p.ID, &p.UserID, &p.Label, &p.Value, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AllPasswords returns a user's passwords in insertion order.
func (db *DB) AllPasswords(ctx context.Context, userID string) ([]Password, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, label, password, created_at
		 FROM user_passwords WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Password
	for rows.Next() {
		var p Password
		if err := rows.Scan(&p.ID, &p.UserID, &p.Label, &p.Value, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
