// Package keepalive runs a small HTTP server exposing liveness and health
// endpoints, so the bot can sit behind an uptime pinger.
package keepalive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stashbot/stashbot/internal/health"
	"github.com/stashbot/stashbot/internal/logging"
)

// Server serves / (liveness) and /health (component report).
type Server struct {
	Addr     string
	Registry *health.Registry
	Log      logging.Logger

	started   time.Time
	processed atomic.Int64
	errors    atomic.Int64
}

// New creates a keepalive server listening on addr.
func New(addr string, registry *health.Registry, log logging.Logger) *Server {
	return &Server{Addr: addr, Registry: registry, Log: log}
}

// MessageProcessed records one handled message for the /health counters.
func (s *Server) MessageProcessed() { s.processed.Add(1) }

// MessageFailed records one failed message for the /health counters.
func (s *Server) MessageFailed() { s.errors.Add(1) }

type healthResponse struct {
	Status            string        `json:"status"`
	Uptime            string        `json:"uptime"`
	MessagesProcessed int64         `json:"messages_processed"`
	MessageErrors     int64         `json:"message_errors"`
	Report            health.Report `json:"report"`
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.started = time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)

	srv := &http.Server{Addr: s.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info(ctx, "keepalive server listening", "addr", s.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprintln(w, "StashBot is running")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status:            "ok",
		Uptime:            time.Since(s.started).Round(time.Second).String(),
		MessagesProcessed: s.processed.Load(),
		MessageErrors:     s.errors.Load(),
	}
	if s.Registry != nil {
		resp.Status = s.Registry.GetStatus()
		resp.Report = s.Registry.Check()
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "error" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Log.Error(r.Context(), "health response encode failed", "err", err)
	}
}
