package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary holds per-category row counts plus the total message-log count
// for one user, taken from a single snapshot.
type Summary struct {
	Credentials int `json:"credentials"`
	Passwords   int `json:"passwords"`
	Notes       int `json:"notes"`
	Emails      int `json:"emails"`
	Links       int `json:"links"`
	Messages    int `json:"messages"`
}

// CategorySummary counts a user's rows across all tables inside one
// read-only transaction, so a concurrent write or clear can never produce a
// torn summary.
func (db *DB) CategorySummary(ctx context.Context, userID string) (Summary, error) {
	var s Summary
	if err := validateUser(userID); err != nil {
		return s, err
	}
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return s, err
	}
	defer tx.Rollback()

	counts := []struct {
		table string
		dst   *int
	}{
		{"user_credentials", &s.Credentials},
		{"user_passwords", &s.Passwords},
		{"user_notes", &s.Notes},
		{"user_emails", &s.Emails},
		{"user_links", &s.Links},
		{"user_messages", &s.Messages},
	}
	for _, c := range counts {
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = ?", c.table)
		if err := tx.QueryRowContext(ctx, q, userID).Scan(c.dst); err != nil {
			return Summary{}, err
		}
	}
	return s, tx.Commit()
}
