// Package retrieve layers read-only query operations over the store:
// label lookups, category listings with display-time dedup, clamped
// recency, guarded free-text search, and snapshot summaries.
package retrieve

import (
	"context"
	"strings"

	"github.com/stashbot/stashbot/internal/store"
)

// Engine wraps a store with the configured result caps.
type Engine struct {
	db        *store.DB
	maxRecent int
	maxSearch int
}

// New builds an Engine. maxRecent and maxSearch are the hard caps for the
// recent and search operations.
func New(db *store.DB, maxRecent, maxSearch int) *Engine {
	if maxRecent < 1 {
		maxRecent = 1
	}
	if maxSearch < 1 {
		maxSearch = 1
	}
	return &Engine{db: db, maxRecent: maxRecent, maxSearch: maxSearch}
}

// CredentialByLabel returns the credential stored under label
// (case-insensitive exact match) or store.ErrNotFound.
func (e *Engine) CredentialByLabel(ctx context.Context, userID, label string) (*store.Credential, error) {
	return e.db.GetCredential(ctx, userID, label)
}

// PasswordByLabel returns the password stored under label or
// store.ErrNotFound.
func (e *Engine) PasswordByLabel(ctx context.Context, userID, label string) (*store.Password, error) {
	return e.db.GetPassword(ctx, userID, label)
}

// Credentials lists a user's credentials in insertion order.
func (e *Engine) Credentials(ctx context.Context, userID string) ([]store.Credential, error) {
	return e.db.AllCredentials(ctx, userID)
}

// Passwords lists a user's passwords in insertion order.
func (e *Engine) Passwords(ctx context.Context, userID string) ([]store.Password, error) {
	return e.db.AllPasswords(ctx, userID)
}

// Notes lists a user's notes in insertion order.
func (e *Engine) Notes(ctx context.Context, userID string) ([]store.Note, error) {
	return e.db.AllNotes(ctx, userID)
}

// Emails lists a user's email entries in insertion order, collapsing
// case-insensitive duplicates to their earliest occurrence. The underlying
// log keeps every occurrence.
func (e *Engine) Emails(ctx context.Context, userID string) ([]store.Email, error) {
	all, err := e.db.AllEmails(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	out := all[:0]
	for _, em := range all {
		key := strings.ToLower(em.Address)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, em)
	}
	return out, nil
}

// Links lists a user's link entries in insertion order, collapsing exact
// duplicates to their earliest occurrence.
func (e *Engine) Links(ctx context.Context, userID string) ([]store.Link, error) {
	all, err := e.db.AllLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	out := all[:0]
	for _, l := range all {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	return out, nil
}

// Recent returns the last n message-log entries, newest first. n is clamped
// to [1, maxRecent] regardless of the caller-supplied value.
func (e *Engine) Recent(ctx context.Context, userID string, n int) ([]store.Message, error) {
	if n < 1 {
		n = 1
	}
	if n > e.maxRecent {
		n = e.maxRecent
	}
	return e.db.RecentMessages(ctx, userID, n)
}

// Search matches term case-insensitively across all category tables,
// newest first, capped at maxSearch. An empty term returns no results.
func (e *Engine) Search(ctx context.Context, userID, term string) ([]store.SearchHit, error) {
	return e.db.Search(ctx, userID, term, e.maxSearch)
}

// Summary returns per-category counts from a single consistent snapshot.
func (e *Engine) Summary(ctx context.Context, userID string) (store.Summary, error) {
	return e.db.CategorySummary(ctx, userID)
}

// Clear removes all of a user's data atomically.
func (e *Engine) Clear(ctx context.Context, userID string) error {
	return e.db.ClearUser(ctx, userID)
}
