// Package provider defines the capability every text-generating backend
// implements and the registry the orchestrator selects participants from.
//
// Design decisions:
//   - Single operation: a Provider only knows how to stream a reply to a prompt
//   - Lazy sequences: Stream returns an iter.Seq2 that does no work until ranged over
//   - Independent calls: every Stream call owns its own state, so one registered
//     provider can serve concurrent requests
//   - Terminal errors: a non-nil error ends the sequence, fragments yielded before
//     it remain valid
//   - No retries: retry and backoff are caller policy
//
// Breaking out of the range loop, or cancelling ctx, must release whatever the
// provider holds (timers, HTTP response bodies) before the loop returns.
//
// Example usage:
//
//	reg, err := provider.NewRegistry(fast, slow)
//	if err != nil {
//	    return err
//	}
//	p, _ := reg.Get("fast")
//	for fragment, err := range p.Stream(ctx, "Why is the sky blue?") {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(fragment)
//	}
//
// Concrete variants live in sub packages: mock (fixed schedule), ollama
// (local inference server, NDJSON) and openai (OpenAI compatible endpoints).
package provider
