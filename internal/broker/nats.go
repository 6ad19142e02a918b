package broker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/pkg/uuidx"
	"github.com/nats-io/nats.go"
)

type natsBroker struct {
	client *nats.Conn
}

// NATS creates a broker that publishes events as JSON on subjects of the
// given connection. It keeps no per-subject state.
func NATS(client *nats.Conn) *natsBroker {
	return &natsBroker{client: client}
}

func (b *natsBroker) Topic(_ context.Context, id string) Topic {
	return &natsTopic{subject: id, client: b.client}
}

func (b *natsBroker) Publish(ctx context.Context, id string, event events.Event) error {
	return (&natsTopic{subject: id, client: b.client}).Publish(ctx, event)
}

type natsTopic struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic) Publish(_ context.Context, event events.Event) error {
	eb, err := events.ToJSON(event)
	if err != nil {
		return err
	}
	if err := t.client.Publish(t.subject, eb); err != nil {
		return fmt.Errorf("publishing to %s: %w", t.subject, err)
	}
	return nil
}

func (t *natsTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}

	ch := make(chan events.Event, subscriptionBuffer)
	done := make(chan struct{})
	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		event, err := events.FromJSON(msg.Data)
		if err != nil {
			slog.Error("failed to unmarshal event", slogx.Error(err), slog.String("subject", msg.Subject))
			return
		}

		select {
		case ch <- event:
		case <-done:
			return
		case <-ctx.Done():
			return
		}

		if msg.Reply != "" {
			if nerr := msg.Ack(); nerr != nil {
				slog.Error("failed to ack message", slogx.Error(nerr))
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", t.subject, err)
	}
	nsub.SetClosedHandler(func(_ string) { close(done) })

	go forwardToHook(ctx, ch, done, hook)
	return &natsSubscription{
		id:  uuidx.NewString(),
		sub: nsub,
	}, nil
}

type natsSubscription struct {
	id  string
	sub *nats.Subscription
}

func (n *natsSubscription) ID() string {
	return n.id
}

func (n *natsSubscription) Unsubscribe() {
	if err := n.sub.Unsubscribe(); err != nil {
		slog.Error("failed to unsubscribe", slogx.Error(err), slog.String("subscription", n.id))
	}
}
