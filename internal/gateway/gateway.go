// Package gateway fans inbound messages from any transport channel into a
// single handler and routes replies back to their source. Channels are
// thin adapters; everything interesting happens behind the handler.
package gateway

import (
	"context"
	"sync"

	"github.com/stashbot/stashbot/internal/logging"
)

// Message represents one inbound or outbound message flowing through the
// gateway.
type Message struct {
	SenderID string // opaque user id; all storage is scoped by it
	Content  string
	Channel  string // source channel name, e.g. "console"
}

// Channel is a transport adapter.
type Channel interface {
	// Name returns the unique name of the channel.
	Name() string
	// Start begins listening and blocks until ctx is canceled, piping
	// inbound messages into ingress.
	Start(ctx context.Context, ingress chan<- Message) error
	// Send delivers a reply back to the channel.
	Send(msg Message) error
}

// Handler processes one inbound message and returns the reply text. An
// empty reply means stay silent.
type Handler func(ctx context.Context, msg Message) (string, error)

// Gateway manages channels and routes messages to the handler.
type Gateway struct {
	mu       sync.RWMutex
	channels map[string]Channel
	ingress  chan Message
	handler  Handler
	log      logging.Logger
}

// New creates a Gateway around handler.
func New(handler Handler, log logging.Logger) *Gateway {
	return &Gateway{
		channels: make(map[string]Channel),
		ingress:  make(chan Message, 100),
		handler:  handler,
		log:      log,
	}
}

// Register adds a channel to the gateway.
func (g *Gateway) Register(c Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[c.Name()] = c
}

// StartAll starts every registered channel plus the ingress processor and
// blocks until ctx is canceled.
func (g *Gateway) StartAll(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		g.processIngress(ctx)
	}()

	g.mu.RLock()
	for _, c := range g.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			if err := ch.Start(ctx, g.ingress); err != nil {
				g.log.Error(ctx, "channel stopped", "channel", ch.Name(), "err", err)
			}
		}(c)
	}
	g.mu.RUnlock()

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (g *Gateway) processIngress(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-g.ingress:
			// One goroutine per message; per-user ordering is enforced
			// further down by the ingestion coordinator's keyed locks.
			go func(m Message) {
				reply, err := g.handler(ctx, m)
				if err != nil {
					g.log.Error(ctx, "handler failed", "channel", m.Channel, "user", m.SenderID, "err", err)
					reply = "Sorry, there was an error processing your message."
				}
				if reply == "" {
					return
				}
				g.routeReply(ctx, m, reply)
			}(msg)
		}
	}
}

func (g *Gateway) routeReply(ctx context.Context, original Message, content string) {
	g.mu.RLock()
	ch, ok := g.channels[original.Channel]
	g.mu.RUnlock()
	if !ok {
		g.log.Error(ctx, "reply channel not found", "channel", original.Channel)
		return
	}
	reply := Message{
		SenderID: "stashbot",
		Content:  content,
		Channel:  original.Channel,
	}
	if err := ch.Send(reply); err != nil {
		g.log.Error(ctx, "reply send failed", "channel", original.Channel, "err", err)
	}
}
