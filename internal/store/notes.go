package store

import (
	"context"
	"time"
)

// Note is free-form text that matched no other category. Append-only, no
// dedup.
type Note struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendNote stores a note for a user.
func (db *DB) AppendNote(ctx context.Context, userID, text string) error {
	return appendNote(ctx, db.DB, userID, text)
}

func appendNote(ctx context.Context, e execer, userID, text string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if err := validateText("note", text); err != nil {
		return err
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_notes (user_id, note) VALUES (?, ?)`,
		userID, text,
	)
	return err
}

// AllNotes returns a user's notes in insertion order.
func (db *DB) AllNotes(ctx context.Context, userID string) ([]Note, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, note, created_at
		 FROM user_notes WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
