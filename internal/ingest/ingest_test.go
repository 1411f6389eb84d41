package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashbot/stashbot/internal/classify"
	"github.com/stashbot/stashbot/internal/logging"
	"github.com/stashbot/stashbot/internal/store"
)

func newCoordinator(t *testing.T, maxText int) (*Coordinator, *store.DB) {
	t.Helper()
	db, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil, logging.New("error"), maxText), db
}

func TestIngest_PasswordEndToEnd(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	cat, stored, err := c.Ingest(ctx, "u1", "password: gmail mypassword123")
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, classify.CategoryPassword, cat)

	p, err := db.GetPassword(ctx, "u1", "gmail")
	require.NoError(t, err)
	assert.Equal(t, "mypassword123", p.Value)
}

func TestIngest_CredentialEndToEnd(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	cat, stored, err := c.Ingest(ctx, "u1", "Gmail - username: john@gmail.com password: mypass123")
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, classify.CategoryCredential, cat)

	cred, err := db.GetCredential(ctx, "u1", "Gmail")
	require.NoError(t, err)
	assert.Equal(t, "john@gmail.com", cred.Username)
	assert.Equal(t, "mypass123", cred.Password)
}

func TestIngest_MixedCategoriesCountUp(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	for _, text := range []string{
		"john@example.com",
		"https://github.com/user/repo",
		"Remember to buy groceries",
	} {
		_, stored, err := c.Ingest(ctx, "u1", text)
		require.NoError(t, err)
		require.True(t, stored)
	}

	sum, err := db.CategorySummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.Summary{Emails: 1, Links: 1, Notes: 1, Messages: 3}, sum)
}

// A repeated credential upsert converges to one row but leaves two audit
// log entries.
func TestIngest_UpsertKeepsAuditTrail(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	for _, text := range []string{
		"gmail - user: a password: p1",
		"gmail - user: a password: p2",
	} {
		_, stored, err := c.Ingest(ctx, "u1", text)
		require.NoError(t, err)
		require.True(t, stored)
	}

	creds, err := db.AllCredentials(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "p2", creds[0].Password)

	n, err := db.CountMessages(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngest_EmptyTextIsNoOp(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	for _, text := range []string{"", "   ", "\n\t"} {
		cat, stored, err := c.Ingest(ctx, "u1", text)
		require.NoError(t, err)
		assert.False(t, stored)
		assert.Empty(t, cat)
	}
	n, err := db.CountMessages(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n, "no-op input must not reach the message log")
}

func TestIngest_TruncatesOversizedText(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 100)

	long := strings.Repeat("a", 500)
	cat, stored, err := c.Ingest(ctx, "u1", long)
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, classify.CategoryNote, cat)

	notes, err := db.AllNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Len(t, notes[0].Text, 100)
}

func TestIngest_MultibyteUnderLimitIsStored(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	// 3000 runes is under the 4000-rune cap even though it is 9000 bytes;
	// it must be stored untouched, not truncated and not rejected.
	text := strings.Repeat("日", 3000)
	cat, stored, err := c.Ingest(ctx, "u1", text)
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, classify.CategoryNote, cat)

	notes, err := db.AllNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, text, notes[0].Text)
}

func TestIngest_OversizedSecretDropped(t *testing.T) {
	ctx := context.Background()
	c, db := newCoordinator(t, 4000)

	// Value survives truncation but exceeds the store's secret limit; the
	// write is rejected with a validation error and nothing is retrievable.
	_, stored, err := c.Ingest(ctx, "u1", "password: gmail "+strings.Repeat("x", store.MaxValueLen+1))
	require.Error(t, err)
	assert.False(t, stored)
	assert.True(t, errors.Is(err, store.ErrValidation))

	_, err = db.GetPassword(ctx, "u1", "gmail")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The failed ingest leaves no trace in the audit log either; the log
	// append and category write share one transaction.
	n, err := db.CountMessages(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func TestIngestImage_ExtractedTextFlowsThroughClassifier(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c := New(db, &fakeExtractor{text: "password: wifi hunter2"}, logging.New("error"), 4000)

	cat, stored, err := c.IngestImage(ctx, "u1", []byte("png"))
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, classify.CategoryPassword, cat)
}

func TestIngestImage_NoTextIsNoOp(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c := New(db, &fakeExtractor{text: ""}, logging.New("error"), 4000)

	_, stored, err := c.IngestImage(ctx, "u1", []byte("png"))
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestIngestImage_ExtractorFailureReported(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	wantErr := errors.New("service down")
	c := New(db, &fakeExtractor{err: wantErr}, logging.New("error"), 4000)

	_, stored, err := c.IngestImage(ctx, "u1", []byte("png"))
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, stored)
}
