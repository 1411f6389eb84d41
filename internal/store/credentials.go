package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Credential is a username/password pair filed under a per-user label. One
// row per (user_id, label); labels compare case-insensitively but keep the
// casing of their first occurrence.
type Credential struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertCredential creates or overwrites the credential with the given
// label. Repeated submissions converge to the same final row regardless of
// retry count.
func (db *DB) UpsertCredential(ctx context.Context, userID, label, username, password string) error {
	return upsertCredential(ctx, db.DB, userID, label, username, password)
}

func upsertCredential(ctx context.Context, e execer, userID, label, username, password string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateLabel(label); err != nil {
		return err
	}
	if err := validateValue("username", username); err != nil {
		return err
	}
	if err := validateValue("password", password); err != nil {
		return err
	}
	// The conflict target is the case-insensitive (user_id, label) unique
	// constraint; the stored label is left untouched on update so the
	// original casing survives.
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_credentials (user_id, label, username, password)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, label) DO UPDATE SET
			username=excluded.username, password=excluded.password, created_at=CURRENT_TIMESTAMP`,
		userID, label, username, password,
	)
	return err
}

// GetCredential retrieves a credential by label, case-insensitively.
func (db *DB) GetCredential(ctx context.Context, userID, label string) (*Credential, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	var c Credential
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, label, username, password, created_at
		 FROM user_credentials WHERE user_id = ? AND label = ?`,
		userID, label,
	).Scan(&c.ID, &c.UserID, &c.Label, &c.Username, &c.Password, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AllCredentials returns a user's credentials in insertion order.
func (db *DB) AllCredentials(ctx context.Context, userID string) ([]Credential, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, label, username, password, created_at
		 FROM user_credentials WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.UserID, &c.Label, &c.Username, &c.Password, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
