// Package commands interprets the user-facing verb surface and routes it
// into the retrieval engine. Anything that is not a recognized command
// falls through to ingestion, which stays silent on success.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stashbot/stashbot/internal/ingest"
	"github.com/stashbot/stashbot/internal/logging"
	"github.com/stashbot/stashbot/internal/retrieve"
	"github.com/stashbot/stashbot/internal/store"
)

// Handler dispatches one inbound message: a recognized verb answers, any
// other text is ingested.
type Handler struct {
	engine      *retrieve.Engine
	coordinator *ingest.Coordinator
	log         logging.Logger
}

// New builds a Handler.
func New(engine *retrieve.Engine, coordinator *ingest.Coordinator, log logging.Logger) *Handler {
	return &Handler{engine: engine, coordinator: coordinator, log: log}
}

// Handle processes text for userID and returns the reply. An empty reply
// means stay silent (stored or dropped; ingestion never acknowledges).
func (h *Handler) Handle(ctx context.Context, userID, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	// Verbs match on exact token boundaries so that ordinary prose which
	// merely starts with a verb ("searched my bag") still gets ingested.
	switch {
	case lower == "get password" || strings.HasPrefix(lower, "get password "):
		return h.getPassword(ctx, userID, argAfter(trimmed, 2))
	case lower == "get credentials":
		return h.listCredentials(ctx, userID)
	case lower == "get credential" || strings.HasPrefix(lower, "get credential "):
		return h.getCredential(ctx, userID, argAfter(trimmed, 2))
	case lower == "get notes":
		return h.listNotes(ctx, userID)
	case lower == "get emails":
		return h.listEmails(ctx, userID)
	case lower == "get links":
		return h.listLinks(ctx, userID)
	case lower == "list":
		return h.list(ctx, userID)
	case lower == "clear":
		return h.clear(ctx, userID)
	case lower == "recent" || strings.HasPrefix(lower, "recent "):
		return h.recent(ctx, userID, argAfter(trimmed, 1))
	case lower == "search" || strings.HasPrefix(lower, "search "):
		return h.search(ctx, userID, argAfter(trimmed, 1))
	case lower == "help":
		return helpText, nil
	}

	// Not a command: classify and store. Silence is the transport layer's
	// contract for successful ingestion; failures are logged and dropped.
	if _, _, err := h.coordinator.Ingest(ctx, userID, text); err != nil {
		h.log.Warn(ctx, "ingest dropped message", "user", userID, "err", err)
	}
	return "", nil
}

// argAfter returns everything after the first n whitespace-separated words,
// preserving internal spacing of the remainder.
func argAfter(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return ""
	}
	return strings.Join(fields[n:], " ")
}

func (h *Handler) getPassword(ctx context.Context, userID, label string) (string, error) {
	if label == "" {
		return "Usage: get password <label>", nil
	}
	p, err := h.engine.PasswordByLabel(ctx, userID, label)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No password found for label '%s'", label), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Password for '%s': %s", p.Label, p.Value), nil
}

func (h *Handler) getCredential(ctx context.Context, userID, label string) (string, error) {
	if label == "" {
		return "Usage: get credential <label>", nil
	}
	c, err := h.engine.CredentialByLabel(ctx, userID, label)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No credentials found for label '%s'", label), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:\nUsername: %s\nPassword: %s", c.Label, c.Username, c.Password), nil
}

func (h *Handler) listCredentials(ctx context.Context, userID string) (string, error) {
	creds, err := h.engine.Credentials(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(creds) == 0 {
		return "No credentials found.", nil
	}
	var b strings.Builder
	b.WriteString("Your credentials:\n")
	for i, c := range creds {
		fmt.Fprintf(&b, "%d. %s\n   Username: %s\n   Password: %s\n", i+1, c.Label, c.Username, c.Password)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *Handler) listNotes(ctx context.Context, userID string) (string, error) {
	notes, err := h.engine.Notes(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "No notes found.", nil
	}
	var b strings.Builder
	b.WriteString("Your notes:\n")
	for i, n := range notes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, n.Text)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *Handler) listEmails(ctx context.Context, userID string) (string, error) {
	emails, err := h.engine.Emails(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(emails) == 0 {
		return "No emails found.", nil
	}
	var b strings.Builder
	b.WriteString("Your emails:\n")
	for i, e := range emails {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Address)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *Handler) listLinks(ctx context.Context, userID string) (string, error) {
	links, err := h.engine.Links(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "No links found.", nil
	}
	var b strings.Builder
	b.WriteString("Your links:\n")
	for i, l := range links {
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.URL)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *Handler) list(ctx context.Context, userID string) (string, error) {
	sum, err := h.engine.Summary(ctx, userID)
	if err != nil {
		return "", err
	}
	if sum == (store.Summary{}) {
		return "No data stored yet. Send me messages, passwords, notes, emails, or links.", nil
	}
	return fmt.Sprintf(
		"Your stored data:\nTotal Messages: %d\nPasswords: %d\nCredentials: %d\nNotes: %d\nEmails: %d\nLinks: %d",
		sum.Messages, sum.Passwords, sum.Credentials, sum.Notes, sum.Emails, sum.Links,
	), nil
}

func (h *Handler) clear(ctx context.Context, userID string) (string, error) {
	if err := h.engine.Clear(ctx, userID); err != nil {
		h.log.Error(ctx, "clear failed", "user", userID, "err", err)
		return "Could not clear your data. Nothing was removed.", nil
	}
	return "All your data has been cleared.", nil
}

func (h *Handler) recent(ctx context.Context, userID, arg string) (string, error) {
	n := 5
	if arg != "" {
		if v, err := strconv.Atoi(arg); err == nil {
			n = v
		}
	}
	msgs, err := h.engine.Recent(ctx, userID, n)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "No recent messages found.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent messages (%d):\n", len(msgs))
	for i, m := range msgs {
		content := m.Content
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, m.Category, content)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (h *Handler) search(ctx context.Context, userID, term string) (string, error) {
	if term == "" {
		return "Usage: search <term>", nil
	}
	hits, err := h.engine.Search(ctx, userID, term)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No matches found for '%s'", term), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Search results for '%s' (%d):\n", term, len(hits))
	for i, hit := range hits {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, hit.Category, hit.Text)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

const helpText = `Available commands:
get password <label>   - get a saved password
get credential <label> - get saved credentials by label
get credentials        - list all saved credentials
get notes              - list your notes
get emails             - list your saved emails
get links              - list your saved links
list                   - summary of stored data per category
recent [n]             - show recent messages (default 5)
search <term>          - search your stored data
clear                  - delete all your data
help                   - this message

Anything else is classified and stored automatically:
credentials ("Gmail - username: a password: b"), bare passwords
("password: gmail secret"), emails, links, and free-form notes.`
