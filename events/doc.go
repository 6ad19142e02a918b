// Package events defines the event stream produced by an orchestration run.
//
// An orchestration fans a prompt out to several providers and interleaves
// their output into a single sequence of events. The set of event shapes is
// closed:
//
//   - Start: a participating provider began streaming
//   - Chunk: one non-empty text fragment from a provider
//   - Done: a provider finished without error (terminal for that provider)
//   - Error: a provider failed (terminal for that provider)
//   - Synthesis: a fragment of the cross-provider summary, emitted only after
//     every provider reached its terminal event
//
// For every participant there is exactly one Start and exactly one of Done or
// Error, and every Chunk for that participant falls between the two.
//
// Every event carries the RunID of the orchestration that produced it and a
// Timestamp. The JSON form is a flat object tagged by "type":
//
//	{"type":"chunk","run_id":"...","provider_id":"fast","text":"Hel","timestamp":"..."}
//
// Example usage:
//
//	for event := range seq {
//	    switch e := event.(type) {
//	    case events.Chunk:
//	        fmt.Print(e.Text)
//	    case events.Error:
//	        log.Printf("%s failed: %s", e.ProviderID, e.Message)
//	    case events.Synthesis:
//	        fmt.Print(e.Text)
//	    }
//	}
package events
