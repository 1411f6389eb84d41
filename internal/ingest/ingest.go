// Package ingest is the single entry point for inbound content: it
// truncates, classifies, and persists raw message text (or OCR output) for
// one user at a time. Both the live message path and the image path funnel
// through Ingest.
package ingest

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/stashbot/stashbot/internal/classify"
	"github.com/stashbot/stashbot/internal/logging"
	"github.com/stashbot/stashbot/internal/ocr"
	"github.com/stashbot/stashbot/internal/store"
)

// Coordinator serializes writes per user and fans classified items into the
// store. Different users never contend on the same lock.
type Coordinator struct {
	db      *store.DB
	ocr     ocr.Extractor
	log     logging.Logger
	maxText int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds a Coordinator. extractor may be nil when image ingestion is
// disabled; maxText is the truncation threshold for inbound text, clamped
// to the store's hard limit so truncated text always passes validation.
func New(db *store.DB, extractor ocr.Extractor, log logging.Logger, maxText int) *Coordinator {
	if maxText < 1 || maxText > store.MaxTextLen {
		maxText = store.MaxTextLen
	}
	return &Coordinator{
		db:      db,
		ocr:     extractor,
		log:     log,
		maxText: maxText,
		locks:   make(map[string]*sync.Mutex),
	}
}

// userLock returns the serialization point for one user, creating it on
// first use. Locks are never removed; the user population of a single
// deployment is tiny.
func (c *Coordinator) userLock(userID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[userID] = l
	}
	return l
}

// Ingest classifies text and stores it for userID. It returns the category
// and whether anything was stored. Empty or whitespace-only text is a no-op
// (stored=false, no error, nothing logged to the message table). Oversized
// text is truncated, not rejected. Storage failures are logged and returned;
// the caller drops the event rather than crashing the ingestion path.
func (c *Coordinator) Ingest(ctx context.Context, userID, text string) (classify.Category, bool, error) {
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	text = truncate(text, c.maxText)

	res, ok := classify.Classify(text)
	if !ok {
		return "", false, nil
	}

	eventID := uuid.NewString()
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// One transaction for the audit log entry and the category row: a
	// failed ingest leaves no stored record at all.
	err := c.db.Transact(ctx, func(tx *store.Tx) error {
		if _, err := tx.AppendMessage(ctx, userID, text, string(res.Category)); err != nil {
			return err
		}
		return storeResult(ctx, tx, userID, res)
	})
	if err != nil {
		c.log.Error(ctx, "ingest write failed", "event", eventID, "user", userID, "category", res.Category, "err", err)
		return "", false, err
	}

	c.log.Debug(ctx, "stored item", "event", eventID, "user", userID, "category", res.Category)
	return res.Category, true, nil
}

// IngestImage runs the OCR black box over image bytes and ingests the
// extracted text. An image with no recognizable text is a no-op.
func (c *Coordinator) IngestImage(ctx context.Context, userID string, image []byte) (classify.Category, bool, error) {
	if c.ocr == nil {
		return "", false, nil
	}
	text, err := c.ocr.ExtractText(ctx, image)
	if err != nil {
		c.log.Error(ctx, "ocr extraction failed", "user", userID, "err", err)
		return "", false, err
	}
	return c.Ingest(ctx, userID, text)
}

func storeResult(ctx context.Context, tx *store.Tx, userID string, res classify.Result) error {
	switch res.Category {
	case classify.CategoryCredential:
		return tx.UpsertCredential(ctx, userID, res.Label, res.Username, res.Password)
	case classify.CategoryPassword:
		return tx.UpsertPassword(ctx, userID, res.Label, res.Value)
	case classify.CategoryEmail:
		return tx.AppendEmail(ctx, userID, res.Address)
	case classify.CategoryLink:
		return tx.AppendLink(ctx, userID, res.URL)
	default:
		return tx.AppendNote(ctx, userID, res.Text)
	}
}

// truncate clips s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
