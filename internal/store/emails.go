package store

import (
	"context"
	"time"
)

// Email is an address mentioned in a message. Append-only; the same address
// may be logged more than once and display-time dedup is the retrieval
// layer's concern.
type Email struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendEmail stores an email address for a user.
func (db *DB) AppendEmail(ctx context.Context, userID, address string) error {
	return appendEmail(ctx, db.DB, userID, address)
}

func appendEmail(ctx context.Context, e execer, userID, address string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateValue("email", address); err != nil {
		return err
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_emails (user_id, email) VALUES (?, ?)`,
		userID, address,
	)
	return err
}

// AllEmails returns a user's email entries in insertion order, duplicates
// included.
func (db *DB) AllEmails(ctx context.Context, userID string) ([]Email, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, email, created_at
		 FROM user_emails WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Email
	for rows.Next() {
		var e Email
		if err := rows.Scan(&e.ID, &e.UserID, &e.Address, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
