package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/pkg/uuidx"
)

const (
	defaultSlowSubscriberTimeout = 100 * time.Millisecond
	subscriptionBuffer           = 50
)

type localBroker struct {
	// mu orders topic creation against removal of a topic's last subscriber
	mu                    sync.Mutex
	topics                *haxmap.Map[string, *topic]
	slowSubscriberTimeout time.Duration
}

// Local creates an in-process broker. Subscribers that cannot keep up are
// dropped after a short grace period instead of blocking the publisher.
// A topic is only held in memory while it has subscribers.
func Local() *localBroker {
	return &localBroker{
		topics:                haxmap.New[string, *topic](),
		slowSubscriberTimeout: defaultSlowSubscriberTimeout,
	}
}

// WithSlowSubscriberTimeout configures the timeout for detecting slow subscribers
func (b *localBroker) WithSlowSubscriberTimeout(timeout time.Duration) *localBroker {
	b.slowSubscriberTimeout = timeout
	return b
}

func (b *localBroker) Topic(_ context.Context, id string) Topic {
	return localTopic{broker: b, id: id}
}

func (b *localBroker) Publish(ctx context.Context, id string, event events.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	t, ok := b.topics.Get(id)
	if !ok {
		return ctx.Err()
	}
	return t.Publish(ctx, event)
}

func (b *localBroker) subscribe(ctx context.Context, id string, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t, _ := b.topics.GetOrCompute(id, func() *topic {
		return &topic{
			ID:                    id,
			subscriptions:         haxmap.New[string, *subscription](),
			slowSubscriberTimeout: b.slowSubscriberTimeout,
		}
	})
	return t.newSubscription(ctx, hook, b.unsubscribe), nil
}

func (b *localBroker) unsubscribe(t *topic, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.subscriptions.Del(subID)
	if t.subscriptions.Len() == 0 {
		b.topics.Del(t.ID)
	}
}

// localTopic is a handle on a named topic of a local broker.
type localTopic struct {
	broker *localBroker
	id     string
}

func (t localTopic) Publish(ctx context.Context, event events.Event) error {
	return t.broker.Publish(ctx, t.id, event)
}

func (t localTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	return t.broker.subscribe(ctx, t.id, hook)
}

type topic struct {
	ID                    string
	subscriptions         *haxmap.Map[string, *subscription]
	slowSubscriberTimeout time.Duration
}

func (t *topic) Publish(ctx context.Context, event events.Event) error {
	t.subscriptions.ForEach(func(_ string, sub *subscription) bool {
		if sub == nil {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
			return true
		case <-sub.done:
			return true
		default:
		}

		timer := time.NewTimer(t.slowSubscriberTimeout)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		case sub.channel <- event:
		case <-timer.C:
			sub.Unsubscribe()
		}
		return true
	})
	return ctx.Err()
}

func (t *topic) newSubscription(ctx context.Context, hook events.Hook, remove func(*topic, string)) *subscription {
	id := uuidx.NewString()
	sub := &subscription{
		id:      id,
		ctx:     ctx,
		channel: make(chan events.Event, subscriptionBuffer),
		done:    make(chan struct{}),
		onClose: func() { remove(t, id) },
	}
	t.subscriptions.Set(id, sub)
	go forwardToHook(ctx, sub.channel, sub.done, hook)
	return sub
}

type subscription struct {
	id        string
	ctx       context.Context
	channel   chan events.Event
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		close(s.done)
	})
}

// forwardToHook delivers events in order until the channel closes, done is
// closed or ctx ends.
func forwardToHook(ctx context.Context, ch <-chan events.Event, done <-chan struct{}, hook events.Hook) {
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			hook.OnEvent(ctx, event)
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
