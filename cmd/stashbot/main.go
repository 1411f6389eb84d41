// StashBot is a personal data assistant: free-form messages (and OCR'd
// screenshots) are classified into credentials, passwords, emails, links,
// and notes, stored per user in an embedded SQLite database, and served
// back through a small command vocabulary. The process stays running; the
// console is one interface and the keepalive HTTP server keeps a pinger
// happy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stashbot/stashbot/internal/channels/console"
	"github.com/stashbot/stashbot/internal/commands"
	"github.com/stashbot/stashbot/internal/config"
	"github.com/stashbot/stashbot/internal/gateway"
	"github.com/stashbot/stashbot/internal/health"
	"github.com/stashbot/stashbot/internal/ingest"
	"github.com/stashbot/stashbot/internal/keepalive"
	"github.com/stashbot/stashbot/internal/logging"
	"github.com/stashbot/stashbot/internal/ocr"
	"github.com/stashbot/stashbot/internal/ratelimit"
	"github.com/stashbot/stashbot/internal/retrieve"
	"github.com/stashbot/stashbot/internal/store"
)

func main() {
	cfg := config.New("")
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	log.Info(ctx, "database open", "path", cfg.DBPath, "encrypted", cfg.DBPassphrase != "")

	var extractor ocr.Extractor
	if cfg.OCRServiceURL != "" {
		extractor = ocr.NewClient(cfg.OCRServiceURL, cfg.OCRAPIKey)
		log.Info(ctx, "ocr enabled", "url", cfg.OCRServiceURL)
	}

	engine := retrieve.New(db, cfg.MaxRecentMessages, cfg.MaxSearchResults)
	coordinator := ingest.New(db, extractor, log, cfg.MaxStoredTextLen)
	handler := commands.New(engine, coordinator, log)

	limiterCfg := ratelimit.DefaultConfig
	limiterCfg.PerMinute = cfg.MessagesPerMinute
	limiterCfg.Burst = cfg.MessagesPerMinute
	limiter := ratelimit.New(limiterCfg)
	defer limiter.Stop()

	registry := health.NewRegistry()
	registry.Register("database", db)

	server := keepalive.New(fmt.Sprintf(":%d", cfg.HTTPPort), registry, log)
	go func() {
		if err := server.Run(ctx); err != nil {
			log.Error(ctx, "keepalive server stopped", "err", err)
		}
	}()

	gw := gateway.New(func(ctx context.Context, msg gateway.Message) (string, error) {
		if !limiter.Allow(msg.SenderID) {
			log.Warn(ctx, "rate limited", "user", msg.SenderID)
			return "You're sending messages too fast. Give it a minute.", nil
		}
		reply, err := handler.Handle(ctx, msg.SenderID, msg.Content)
		if err != nil {
			server.MessageFailed()
			return reply, err
		}
		server.MessageProcessed()
		return reply, nil
	}, log)
	gw.Register(console.New(os.Getenv("STASHBOT_CONSOLE_USER")))

	log.Info(ctx, "stashbot started")
	return gw.StartAll(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (*store.DB, error) {
	if cfg.DBPassphrase != "" {
		return store.OpenEncrypted(ctx, cfg.DBPath, cfg.DBPassphrase)
	}
	return store.Open(ctx, cfg.DBPath)
}
