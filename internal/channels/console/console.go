// Package console implements a stdin/stdout channel for single-operator
// use.
package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stashbot/stashbot/internal/gateway"
)

// Channel reads messages from stdin and prints replies to stdout.
type Channel struct {
	// UserID is the identity attributed to console input.
	UserID string
}

// New creates a console channel for the given user identity.
func New(userID string) *Channel {
	if userID == "" {
		userID = "console"
	}
	return &Channel{UserID: userID}
}

func (c *Channel) Name() string {
	return "console"
}

func (c *Channel) Start(ctx context.Context, ingress chan<- gateway.Message) error {
	fmt.Println("StashBot console (Enter to send, Ctrl+C to exit, 'help' for commands)")
	fmt.Println()

	// Stdin reads are not interruptible; the goroutine leaks on shutdown,
	// which is fine for a console session that ends with the process.
	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			ingress <- gateway.Message{
				SenderID: c.UserID,
				Content:  text,
				Channel:  c.Name(),
			}
		}
	}()

	<-ctx.Done()
	return nil
}

func (c *Channel) Send(msg gateway.Message) error {
	fmt.Printf("\n%s\n\n", msg.Content)
	fmt.Print("> ")
	return nil
}
