package lynx

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/casualjim/lynx/api"
	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/internal/broker"
	"github.com/casualjim/lynx/internal/mux"
	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/pkg/uuidx"
	"github.com/casualjim/lynx/provider"
	"github.com/casualjim/lynx/strategy"
	"github.com/casualjim/lynx/synth"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
)

type (
	Request = api.Request
	Outputs = api.Outputs
)

var (
	ErrInvalidRequest = api.ErrInvalidRequest
	ErrEmptyPrompt    = api.ErrEmptyPrompt
	ErrNoProviders    = api.ErrNoProviders
)

// Publisher receives a copy of every event a run relays, on the topic named
// lynx.runs.<run id>.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Event) error
}

type Orchestrator struct {
	registry    *provider.Registry
	strategy    strategy.Strategy
	synthesizer synth.Synthesizer
	publisher   Publisher
	newRunID    uuidx.Generator
}

var (
	// WithStrategy replaces the participant selection. It defaults to strategy.Manual.
	WithStrategy = opts.ForName[Orchestrator, strategy.Strategy]("strategy")
	// WithSynthesizer replaces the summary stage. It defaults to synth.Preview.
	WithSynthesizer = opts.ForName[Orchestrator, synth.Synthesizer]("synthesizer")
	// WithPublisher tees every relayed event to a broker.
	WithPublisher = opts.ForName[Orchestrator, Publisher]("publisher")
	// WithRunIDs sets the generator for run identifiers.
	WithRunIDs = opts.ForName[Orchestrator, uuidx.Generator]("newRunID")
)

func New(registry *provider.Registry, options ...opts.Option[Orchestrator]) *Orchestrator {
	o := &Orchestrator{
		registry:    registry,
		strategy:    strategy.Manual{},
		synthesizer: synth.NewPreview(),
		newRunID:    uuidx.New,
	}
	if err := opts.Apply(o, options); err != nil {
		panic(err)
	}
	return o
}

// Registry returns the providers known to the orchestrator.
func (o *Orchestrator) Registry() *provider.Registry {
	return o.registry
}

// Orchestrate validates req and returns the event sequence of a new run.
// Providers only start once the sequence is iterated. Iterating it again
// repeats the run under the same run id.
func (o *Orchestrator) Orchestrate(ctx context.Context, req Request) (iter.Seq[events.Event], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := o.newRunID()
	participants := o.strategy.SelectProviders(ctx, req, o.registry)
	slog.DebugContext(ctx, "orchestration accepted",
		slogx.RunID(runID),
		slog.Int("requested", len(req.ProviderIDs)),
		slog.Int("participants", len(participants)),
	)

	return func(yield func(events.Event) bool) {
		r := &run{
			Orchestrator: o,
			id:           runID,
			topic:        broker.RunSubject(runID),
			yield:        yield,
		}
		r.execute(ctx, req, participants)
	}, nil
}

type run struct {
	*Orchestrator
	id    uuid.UUID
	topic string
	yield func(events.Event) bool
}

func (r *run) execute(ctx context.Context, req Request, participants []provider.Provider) {
	ids := make([]string, 0, len(participants))
	producers := make([]mux.Producer[events.Event], 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID())
		producers = append(producers, r.participate(req.Prompt, p))
	}
	outputs := api.NewOutputs(ids...)

	for event := range mux.Merge(ctx, producers...) {
		if chunk, ok := event.(events.Chunk); ok {
			outputs.Append(chunk.ProviderID, chunk.Text)
		}
		if !r.relay(ctx, event) {
			return
		}
	}

	if !req.IncludeSynthesis || ctx.Err() != nil {
		return
	}
	r.synthesize(ctx, outputs)
}

// participate streams one provider, framed by its Start and terminal event.
func (r *run) participate(prompt string, p provider.Provider) mux.Producer[events.Event] {
	id := p.ID()
	return func(ctx context.Context, emit func(events.Event) bool) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("provider panicked: %v", rec)
				slog.ErrorContext(ctx, "provider stream panicked", slogx.RunID(r.id), slogx.ProviderID(id), slogx.Error(err))
				emit(events.Error{RunID: r.id, ProviderID: id, Message: err.Error(), Timestamp: events.Now()})
			}
		}()

		if !emit(events.Start{RunID: r.id, ProviderID: id, Timestamp: events.Now()}) {
			return
		}

		for fragment, err := range p.Stream(ctx, prompt) {
			if err != nil {
				slog.WarnContext(ctx, "provider stream failed", slogx.RunID(r.id), slogx.ProviderID(id), slogx.Error(err))
				emit(events.Error{RunID: r.id, ProviderID: id, Message: errorMessage(err), Timestamp: events.Now()})
				return
			}
			if fragment == "" {
				continue
			}
			if !emit(events.Chunk{RunID: r.id, ProviderID: id, Text: fragment, Timestamp: events.Now()}) {
				return
			}
		}

		emit(events.Done{RunID: r.id, ProviderID: id, Timestamp: events.Now()})
	}
}

func (r *run) synthesize(ctx context.Context, outputs *Outputs) {
	for fragment, err := range r.synthesizer.Synthesize(ctx, outputs) {
		if err != nil {
			slog.WarnContext(ctx, "synthesis failed", slogx.RunID(r.id), slogx.Error(err))
			r.relay(ctx, events.Synthesis{RunID: r.id, Err: errorMessage(err), Timestamp: events.Now()})
			return
		}
		if fragment == "" {
			continue
		}
		if !r.relay(ctx, events.Synthesis{RunID: r.id, Text: fragment, Timestamp: events.Now()}) {
			return
		}
	}
}

func (r *run) relay(ctx context.Context, event events.Event) bool {
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, r.topic, event); err != nil {
			slog.WarnContext(ctx, "failed to publish event",
				slogx.RunID(r.id),
				slog.String("kind", event.Kind().String()),
				slogx.Error(err),
			)
		}
	}
	return r.yield(event)
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}
