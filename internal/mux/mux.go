// Package mux merges independently paced producers into one sequence.
//
// Every producer runs on its own goroutine and hands values to a single
// ready channel. Values are delivered in arrival order, so a fast producer
// is never held back by a slow one, while the values of any one producer keep
// the order in which it emitted them.
package mux

import (
	"context"
	"iter"
	"sync"
)

// Producer emits values until it is done or emit reports false.
// A producer must return promptly once ctx is cancelled.
type Producer[T any] func(ctx context.Context, emit func(T) bool)

type ready[T any] struct {
	index int
	value T
	done  bool
}

// Merge runs all producers concurrently and yields their values as they
// arrive. The sequence ends once every producer has returned. Stopping the
// iteration early cancels the producers and waits for them to return.
func Merge[T any](ctx context.Context, producers ...Producer[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if len(producers) == 0 {
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		readyCh := make(chan ready[T])
		stop := make(chan struct{})

		var wg sync.WaitGroup
		defer func() {
			close(stop)
			cancel()
			wg.Wait()
		}()

		active := make(map[int]struct{}, len(producers))
		for i, produce := range producers {
			active[i] = struct{}{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					// the done marker is dropped once the consumer is gone
					select {
					case readyCh <- ready[T]{index: i, done: true}:
					case <-stop:
					}
				}()

				if produce == nil {
					return
				}
				produce(ctx, func(v T) bool {
					if ctx.Err() != nil {
						return false
					}
					select {
					case readyCh <- ready[T]{index: i, value: v}:
						return true
					case <-ctx.Done():
						return false
					case <-stop:
						return false
					}
				})
			}()
		}

		for len(active) > 0 {
			r := <-readyCh
			if r.done {
				delete(active, r.index)
				continue
			}
			if !yield(r.value) {
				return
			}
		}
	}
}
