package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stashbot/stashbot/internal/logging"
)

type fakeChannel struct {
	inbound []Message
	replies chan Message
}

func (f *fakeChannel) Name() string { return "fake" }

func (f *fakeChannel) Start(ctx context.Context, ingress chan<- Message) error {
	for _, m := range f.inbound {
		ingress <- m
	}
	<-ctx.Done()
	return nil
}

func (f *fakeChannel) Send(msg Message) error {
	f.replies <- msg
	return nil
}

func waitReply(t *testing.T, ch chan Message) Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
		return Message{}
	}
}

func TestGateway_RoutesReplyToSourceChannel(t *testing.T) {
	fake := &fakeChannel{
		inbound: []Message{{SenderID: "u1", Content: "hello", Channel: "fake"}},
		replies: make(chan Message, 1),
	}
	g := New(func(ctx context.Context, msg Message) (string, error) {
		return "got: " + msg.Content, nil
	}, logging.New("error"))
	g.Register(fake)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.StartAll(ctx)
		close(done)
	}()

	reply := waitReply(t, fake.replies)
	if reply.Content != "got: hello" {
		t.Errorf("reply content = %q, want %q", reply.Content, "got: hello")
	}
	if reply.Channel != "fake" {
		t.Errorf("reply channel = %q, want fake", reply.Channel)
	}

	cancel()
	<-done
}

func TestGateway_EmptyReplyStaysSilent(t *testing.T) {
	fake := &fakeChannel{
		inbound: []Message{{SenderID: "u1", Content: "stored", Channel: "fake"}},
		replies: make(chan Message, 1),
	}
	g := New(func(ctx context.Context, msg Message) (string, error) {
		return "", nil
	}, logging.New("error"))
	g.Register(fake)

	ctx, cancel := context.WithCancel(context.Background())
	go g.StartAll(ctx)
	defer cancel()

	select {
	case m := <-fake.replies:
		t.Errorf("unexpected reply %q for silent handler", m.Content)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestGateway_HandlerErrorGetsGenericReply(t *testing.T) {
	fake := &fakeChannel{
		inbound: []Message{{SenderID: "u1", Content: "boom", Channel: "fake"}},
		replies: make(chan Message, 1),
	}
	g := New(func(ctx context.Context, msg Message) (string, error) {
		return "", errors.New("backend down")
	}, logging.New("error"))
	g.Register(fake)

	ctx, cancel := context.WithCancel(context.Background())
	go g.StartAll(ctx)
	defer cancel()

	reply := waitReply(t, fake.replies)
	if reply.Content == "" || reply.Content == "boom" {
		t.Errorf("expected generic error reply, got %q", reply.Content)
	}
}
