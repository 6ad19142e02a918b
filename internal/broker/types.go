package broker

import (
	"context"

	"github.com/casualjim/lynx/events"
	"github.com/google/uuid"
)

const runSubjectPrefix = "lynx.runs."

type Broker interface {
	Topic(context.Context, string) Topic
	// Publish sends an event to the named topic.
	Publish(context.Context, string, events.Event) error
}

type Topic interface {
	Publish(context.Context, events.Event) error
	Subscribe(context.Context, events.Hook) (Subscription, error)
}

type Subscription interface {
	ID() string
	Unsubscribe()
}

// RunSubject is the topic carrying the events of one orchestration run.
func RunSubject(runID uuid.UUID) string {
	return runSubjectPrefix + runID.String()
}
