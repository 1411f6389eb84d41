package store

import (
	"context"
	"time"
)

// Link is a URL mentioned in a message. Same duplicate policy as Email.
type Link struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendLink stores a URL for a user.
func (db *DB) AppendLink(ctx context.Context, userID, url string) error {
	return appendLink(ctx, db.DB, userID, url)
}

func appendLink(ctx context.Context, e execer, userID, url string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateValue("url", url); err != nil {
		return err
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_links (user_id, url) VALUES (?, ?)`,
		userID, url,
	)
	return err
}

// AllLinks returns a user's link entries in insertion order, duplicates
// included.
func (db *DB) AllLinks(ctx context.Context, userID string) ([]Link, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, url, created_at
		 FROM user_links WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.UserID, &l.URL, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
