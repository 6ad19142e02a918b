// Package broker distributes the events of orchestration runs to subscribers
// that are not the caller of Orchestrate, such as dashboards or audit sinks.
//
// Every run publishes on its own topic, named by RunSubject. Two
// implementations are provided:
//
//   - Local: in-process fan-out over buffered channels
//   - NATS: events travel as JSON over a NATS connection
//
// Example usage:
//
//	b := broker.Local()
//	sub, err := b.Topic(ctx, broker.RunSubject(runID)).Subscribe(ctx, events.HookFunc(
//	    func(ctx context.Context, e events.Event) {
//	        fmt.Println(e.Kind())
//	    },
//	))
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
package broker
