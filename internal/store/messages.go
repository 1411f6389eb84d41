package store

import (
	"context"
	"time"
)

// Message is one entry in the append-only per-user audit log. Every
// classified item lands here in addition to its category table; log entries
// are never updated and only removed by ClearUser.
type Message struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendMessage records a classified item in the message log and returns
// its id.
func (db *DB) AppendMessage(ctx context.Context, userID, content, category string) (int64, error) {
	return appendMessage(ctx, db.DB, userID, content, category)
}

func appendMessage(ctx context.Context, e execer, userID, content, category string) (int64, error) {
	if err := validateUser(userID); err != nil {
		return 0, err
	}
	if err := validateText("content", content); err != nil {
		return 0, err
	}
	if category == "" {
		return 0, ErrValidation
	}
	res, err := e.ExecContext(ctx,
		`INSERT INTO user_messages (user_id, content, category) VALUES (?, ?, ?)`,
		userID, content, category,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentMessages returns the last limit log entries for a user, newest
// first. Ties on created_at break by insertion order.
func (db *DB) RecentMessages(ctx context.Context, userID string, limit int) ([]Message, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, content, category, created_at
		 FROM user_messages WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Category, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMessages returns the number of log entries for a user.
func (db *DB) CountMessages(ctx context.Context, userID string) (int, error) {
	if err := validateUser(userID); err != nil {
		return 0, err
	}
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_messages WHERE user_id = ?`, userID,
	).Scan(&n)
	return n, err
}
