package store

import (
	"context"
	"fmt"
)

var userTables = []string{
	"user_messages",
	"user_credentials",
	"user_passwords",
	"user_notes",
	"user_emails",
	"user_links",
}

// ClearUser deletes every row belonging to userID across all tables in one
// transaction: either all six tables are purged or none are. A failure
// mid-clear rolls back and leaves prior state intact.
func (db *DB) ClearUser(ctx context.Context, userID string) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range userTables {
		q := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table)
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return tx.Commit()
}
