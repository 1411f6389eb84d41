package store

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// DB wraps *sql.DB for StashBot storage. Every operation takes the owning
// user's id and never touches another user's rows; that scoping is the
// store's core security invariant.
type DB struct {
	*sql.DB
}

// Input limits enforced on writes. Values beyond these are rejected with
// ErrValidation rather than silently clipped; the ingest layer truncates
// free text to its configured maximum before it reaches the store.
// MaxTextLen counts runes, matching the rune-based truncation upstream;
// label and value limits count bytes.
const (
	MaxLabelLen = 200
	MaxValueLen = 500
	MaxTextLen  = 8000
)

// Open opens the SQLite database at path and applies the schema. Creates
// the file if missing. Use ":memory:" for tests.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return initDB(ctx, db)
}

func initDB(ctx context.Context, db *sql.DB) (*DB, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{db}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.DB.Close()
}

func validateUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", ErrValidation)
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrValidation)
	}
	if len(label) > MaxLabelLen {
		return fmt.Errorf("%w: label exceeds %d bytes", ErrValidation, MaxLabelLen)
	}
	return nil
}

func validateValue(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty %s", ErrValidation, name)
	}
	if len(v) > MaxValueLen {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrValidation, name, MaxValueLen)
	}
	return nil
}

func validateText(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty %s", ErrValidation, name)
	}
	if utf8.RuneCountInString(v) > MaxTextLen {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, name, MaxTextLen)
	}
	return nil
}
