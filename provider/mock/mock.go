// Package mock provides a deterministic provider that emits a fixed list of
// fragments on a fixed schedule. It is used for demos and to exercise timing
// and ordering in tests.
package mock

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/casualjim/lynx/provider"
	"github.com/fogfish/opts"
)

var _ provider.Provider = (*Provider)(nil)

type Provider struct {
	id          string
	name        string
	fragments   []string
	delay       time.Duration
	failAfter   int
	failMessage string
	hang        bool
	local       bool
}

var (
	// Name sets the display name. It defaults to the id.
	Name = opts.ForName[Provider, string]("name")
	// Delay is the pause before every fragment.
	Delay = opts.ForName[Provider, time.Duration]("delay")
	// Hang makes the stream block after its last fragment until ctx is cancelled.
	Hang = opts.ForName[Provider, bool]("hang")
	// Local marks the provider as running on the local machine.
	Local = opts.ForName[Provider, bool]("local")
)

// Fragments sets the fragments to emit, in order.
func Fragments(fragment string, extra ...string) opts.Option[Provider] {
	return opts.Type[Provider](func(p *Provider) error {
		p.fragments = append([]string{fragment}, extra...)
		return nil
	})
}

// FailAfter makes the stream fail with message once n fragments were emitted.
func FailAfter(n int, message string) opts.Option[Provider] {
	return opts.Type[Provider](func(p *Provider) error {
		if n < 0 {
			return errors.New("mock: FailAfter needs a non-negative count")
		}
		p.failAfter = n
		p.failMessage = message
		return nil
	})
}

// New creates a mock provider. Without Fragments it replies with
// "This is response from <name>. " one word at a time.
func New(id string, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		id:        id,
		name:      id,
		failAfter: -1,
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	if len(p.fragments) == 0 {
		p.fragments = []string{"This ", "is ", "response ", "from ", p.name, ". "}
	}
	return p
}

func (p *Provider) ID() string   { return p.id }
func (p *Provider) Name() string { return p.name }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{IsLocal: p.local}
}

func (p *Provider) Stream(ctx context.Context, _ string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i, fragment := range p.fragments {
			if i == p.failAfter {
				yield("", errors.New(p.failMessage))
				return
			}
			if err := sleep(ctx, p.delay); err != nil {
				yield("", err)
				return
			}
			if !yield(fragment, nil) {
				return
			}
		}

		if p.failAfter >= len(p.fragments) {
			yield("", errors.New(p.failMessage))
			return
		}

		if p.hang {
			<-ctx.Done()
			yield("", ctx.Err())
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
