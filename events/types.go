package events

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Kind tags the shape of an Event.
type Kind string

const (
	KindStart     Kind = "start"
	KindChunk     Kind = "chunk"
	KindDone      Kind = "done"
	KindError     Kind = "error"
	KindSynthesis Kind = "synthesis"
)

func (k Kind) String() string {
	return string(k)
}

// Event is implemented by the five event shapes of this package only.
type Event interface {
	Kind() Kind
	lynxEvent()
}

type Start struct {
	RunID      uuid.UUID       `json:"run_id"`
	ProviderID string          `json:"provider_id"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Start) lynxEvent()  {}
func (Start) Kind() Kind { return KindStart }

type Chunk struct {
	RunID      uuid.UUID       `json:"run_id"`
	ProviderID string          `json:"provider_id"`
	Text       string          `json:"text"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Chunk) lynxEvent()  {}
func (Chunk) Kind() Kind { return KindChunk }

type Done struct {
	RunID      uuid.UUID       `json:"run_id"`
	ProviderID string          `json:"provider_id"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Done) lynxEvent()  {}
func (Done) Kind() Kind { return KindDone }

// Error reports the failure of a single provider. It never ends the
// orchestration as a whole.
type Error struct {
	RunID      uuid.UUID       `json:"run_id"`
	ProviderID string          `json:"provider_id"`
	Message    string          `json:"error"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Error) lynxEvent()  {}
func (Error) Kind() Kind { return KindError }

func (e Error) Error() string {
	return fmt.Sprintf("provider %s: %s", e.ProviderID, e.Message)
}

// Synthesis carries one fragment of the summary. When Err is set the
// synthesizer failed; such an event is always the last one of the run.
type Synthesis struct {
	RunID     uuid.UUID       `json:"run_id"`
	Text      string          `json:"text,omitempty"`
	Err       string          `json:"error,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Synthesis) lynxEvent()  {}
func (Synthesis) Kind() Kind { return KindSynthesis }

// Failed reports whether the synthesizer failed.
func (s Synthesis) Failed() bool {
	return s.Err != ""
}

// ProviderID returns the provider an event belongs to. Synthesis events
// belong to no provider.
func ProviderID(e Event) (string, bool) {
	switch ev := e.(type) {
	case Start:
		return ev.ProviderID, true
	case Chunk:
		return ev.ProviderID, true
	case Done:
		return ev.ProviderID, true
	case Error:
		return ev.ProviderID, true
	default:
		return "", false
	}
}

// IsTerminal reports whether e ends a provider's contribution.
func IsTerminal(e Event) bool {
	switch e.(type) {
	case Done, Error:
		return true
	default:
		return false
	}
}

// Now is the timestamp applied to newly created events.
func Now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}
