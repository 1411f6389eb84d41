package store

import (
	"context"
	"database/sql"
)

// execer is the write-path subset shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx exposes the store's write operations inside one transaction, so a
// multi-table write either lands completely or not at all.
type Tx struct {
	tx *sql.Tx
}

// Transact runs fn inside a transaction. Any error from fn (or from commit)
// rolls the whole transaction back.
func (db *DB) Transact(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendMessage records a classified item in the message log and returns
// its id.
func (t *Tx) AppendMessage(ctx context.Context, userID, content, category string) (int64, error) {
	return appendMessage(ctx, t.tx, userID, content, category)
}

// UpsertCredential creates or overwrites the credential with the given
// label.
func (t *Tx) UpsertCredential(ctx context.Context, userID, label, username, password string) error {
	return upsertCredential(ctx, t.tx, userID, label, username, password)
}

// UpsertPassword creates or overwrites the password with the given label.
func (t *Tx) UpsertPassword(ctx context.Context, userID, label, value string) error {
	return upsertPassword(ctx, t.tx, userID, label, value)
}

// AppendNote stores a note for a user.
func (t *Tx) AppendNote(ctx context.Context, userID, text string) error {
	return appendNote(ctx, t.tx, userID, text)
}

// AppendEmail stores an email address for a user.
func (t *Tx) AppendEmail(ctx context.Context, userID, address string) error {
	return appendEmail(ctx, t.tx, userID, address)
}

// AppendLink stores a URL for a user.
func (t *Tx) AppendLink(ctx context.Context, userID, url string) error {
	return appendLink(ctx, t.tx, userID, url)
}
