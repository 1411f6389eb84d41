package retrieve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashbot/stashbot/internal/store"
)

func newEngine(t *testing.T, maxRecent, maxSearch int) (*Engine, *store.DB) {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, maxRecent, maxSearch), db
}

func TestEmails_DedupKeepsEarliestCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 50, 10)

	require.NoError(t, db.AppendEmail(ctx, "u1", "John@Example.com"))
	require.NoError(t, db.AppendEmail(ctx, "u1", "john@example.com"))
	require.NoError(t, db.AppendEmail(ctx, "u1", "other@example.com"))

	emails, err := e.Emails(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "John@Example.com", emails[0].Address, "earliest occurrence wins")
	assert.Equal(t, "other@example.com", emails[1].Address)

	// Underlying log still has every occurrence.
	raw, err := db.AllEmails(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, raw, 3)
}

func TestLinks_DedupIsExact(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 50, 10)

	require.NoError(t, db.AppendLink(ctx, "u1", "https://go.dev"))
	require.NoError(t, db.AppendLink(ctx, "u1", "https://go.dev"))
	require.NoError(t, db.AppendLink(ctx, "u1", "https://GO.dev"))

	links, err := e.Links(ctx, "u1")
	require.NoError(t, err)
	// URL dedup is case-sensitive: https://GO.dev is a distinct entry.
	require.Len(t, links, 2)
}

func TestRecent_ClampsCallerValue(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 3, 10)

	for i := 0; i < 5; i++ {
		_, err := db.AppendMessage(ctx, "u1", "m", "note")
		require.NoError(t, err)
	}

	got, err := e.Recent(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, got, 3, "clamped to configured max")

	got, err = e.Recent(ctx, "u1", -5)
	require.NoError(t, err)
	assert.Len(t, got, 1, "clamped to at least 1")
}

func TestSearch_EmptyTermGuard(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 50, 10)

	require.NoError(t, db.AppendNote(ctx, "u1", "all my secrets"))
	hits, err := e.Search(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, hits, "empty term must not dump the dataset")
}

func TestSearch_CapsResults(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 50, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.AppendNote(ctx, "u1", "needle in note"))
	}
	hits, err := e.Search(ctx, "u1", "needle")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestCredentialByLabel_MostRecentUpsertWins(t *testing.T) {
	ctx := context.Background()
	e, db := newEngine(t, 50, 10)

	require.NoError(t, db.UpsertCredential(ctx, "u1", "gmail", "john", "old"))
	require.NoError(t, db.UpsertCredential(ctx, "u1", "Gmail", "john", "new"))

	c, err := e.CredentialByLabel(ctx, "u1", "GMAIL")
	require.NoError(t, err)
	assert.Equal(t, "new", c.Password)
	assert.Equal(t, "gmail", c.Label, "first occurrence casing retained")
}

func TestSummary_EmptyUser(t *testing.T) {
	e, _ := newEngine(t, 50, 10)
	sum, err := e.Summary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, store.Summary{}, sum)
}
