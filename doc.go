/*
Package lynx fans one prompt out to several text-generating providers and
interleaves their streamed output into a single sequence of events.

Every selected provider, a participant, streams concurrently. Its fragments
are relayed the moment they arrive, so a fast local model is never held back
by a slow remote one. Once every participant has finished, successfully or
not, an optional synthesizer summarizes the collected outputs.

# Basic Usage

	registry, err := provider.NewRegistry(
		mock.New("fast", mock.Delay(10*time.Millisecond)),
		ollama.New("llama", "llama3.2"),
	)
	if err != nil {
		return err
	}

	o := lynx.New(registry)
	seq, err := o.Orchestrate(ctx, lynx.Request{
		Prompt:           "Why is the sky blue?",
		ProviderIDs:      []string{"fast", "llama"},
		IncludeSynthesis: true,
	})
	if err != nil {
		return err // the request was invalid
	}
	for event := range seq {
		switch e := event.(type) {
		case events.Chunk:
			fmt.Printf("[%s] %s", e.ProviderID, e.Text)
		case events.Error:
			fmt.Printf("[%s] failed: %s\n", e.ProviderID, e.Message)
		case events.Synthesis:
			fmt.Print(e.Text)
		}
	}

# Guarantees

For every participant the sequence holds exactly one events.Start, then that
participant's chunks in the order the provider produced them, then exactly one
of events.Done or events.Error. A failing provider never affects the others.
Synthesis events only follow the terminal events of all participants.

Breaking out of the range loop, or cancelling ctx, stops every participant and
releases its connections before the loop returns.

# Configuration

The orchestrator is configured with functional options:

	o := lynx.New(registry,
		lynx.WithStrategy(strategy.LocalOnly(strategy.Manual{})),
		lynx.WithSynthesizer(synth.NewProvider(judge)),
		lynx.WithPublisher(broker.Local()),
	)
*/
package lynx
