package events

import "context"

// Hook receives the events of a run, one at a time and in order.
type Hook interface {
	OnEvent(ctx context.Context, event Event)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx context.Context, event Event)

func (f HookFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}
