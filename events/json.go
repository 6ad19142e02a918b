package events

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	startJSON     = []byte(`{"type":"start"}`)
	chunkJSON     = []byte(`{"type":"chunk"}`)
	doneJSON      = []byte(`{"type":"done"}`)
	errorJSON     = []byte(`{"type":"error"}`)
	synthesisJSON = []byte(`{"type":"synthesis"}`)
)

// ToJSON serializes any event in its tagged JSON form.
func ToJSON(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("event is nil")
	}
	return json.Marshal(e)
}

// FromJSON decodes a tagged JSON event.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch kind := gjson.GetBytes(data, "type").String(); Kind(kind) {
	case KindStart:
		var e Start
		err := e.UnmarshalJSON(data)
		return e, err
	case KindChunk:
		var e Chunk
		err := e.UnmarshalJSON(data)
		return e, err
	case KindDone:
		var e Done
		err := e.UnmarshalJSON(data)
		return e, err
	case KindError:
		var e Error
		err := e.UnmarshalJSON(data)
		return e, err
	case KindSynthesis:
		var e Synthesis
		err := e.UnmarshalJSON(data)
		return e, err
	default:
		return nil, fmt.Errorf("unknown event type %q", kind)
	}
}

func marshalHeader(tpl []byte, runID uuid.UUID, providerID string) ([]byte, error) {
	result, err := sjson.SetBytes(tpl, "run_id", runID.String())
	if err != nil {
		return nil, err
	}
	if providerID == "" {
		return result, nil
	}
	return sjson.SetBytes(result, "provider_id", providerID)
}

func marshalTimestamp(result []byte, ts strfmt.DateTime) ([]byte, error) {
	if ts.IsZero() {
		return result, nil
	}
	return sjson.SetBytes(result, "timestamp", ts.String())
}

// unmarshalHeader validates the type tag and extracts the fields common to all events.
func unmarshalHeader(data []byte, want Kind, needProvider bool) (runID uuid.UUID, providerID string, ts strfmt.DateTime, err error) {
	if !gjson.ValidBytes(data) {
		return runID, "", ts, fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != string(want) {
		return runID, "", ts, fmt.Errorf("missing or invalid type, expected '%s'", want)
	}

	rid := gjson.GetBytes(data, "run_id")
	if !rid.Exists() {
		return runID, "", ts, fmt.Errorf("missing required field 'run_id'")
	}
	if err := runID.UnmarshalText([]byte(rid.String())); err != nil {
		return runID, "", ts, fmt.Errorf("invalid run_id: %w", err)
	}

	if needProvider {
		pid := gjson.GetBytes(data, "provider_id")
		if !pid.Exists() || pid.String() == "" {
			return runID, "", ts, fmt.Errorf("missing required field 'provider_id'")
		}
		providerID = pid.String()
	}

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := ts.UnmarshalText([]byte(timestamp.String())); err != nil {
			return runID, "", ts, fmt.Errorf("invalid timestamp: %w", err)
		}
	}
	return runID, providerID, ts, nil
}

// MarshalJSON implements custom JSON marshaling for Start
func (s Start) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(startJSON, s.RunID, s.ProviderID)
	if err != nil {
		return nil, err
	}
	return marshalTimestamp(result, s.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Start
func (s *Start) UnmarshalJSON(data []byte) error {
	runID, providerID, ts, err := unmarshalHeader(data, KindStart, true)
	if err != nil {
		return err
	}
	s.RunID, s.ProviderID, s.Timestamp = runID, providerID, ts
	return nil
}

// MarshalJSON implements custom JSON marshaling for Chunk
func (c Chunk) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(chunkJSON, c.RunID, c.ProviderID)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "text", c.Text)
	if err != nil {
		return nil, err
	}
	return marshalTimestamp(result, c.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk
func (c *Chunk) UnmarshalJSON(data []byte) error {
	runID, providerID, ts, err := unmarshalHeader(data, KindChunk, true)
	if err != nil {
		return err
	}
	text := gjson.GetBytes(data, "text")
	if !text.Exists() {
		return fmt.Errorf("missing required field 'text'")
	}
	c.RunID, c.ProviderID, c.Text, c.Timestamp = runID, providerID, text.String(), ts
	return nil
}

// MarshalJSON implements custom JSON marshaling for Done
func (d Done) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(doneJSON, d.RunID, d.ProviderID)
	if err != nil {
		return nil, err
	}
	return marshalTimestamp(result, d.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Done
func (d *Done) UnmarshalJSON(data []byte) error {
	runID, providerID, ts, err := unmarshalHeader(data, KindDone, true)
	if err != nil {
		return err
	}
	d.RunID, d.ProviderID, d.Timestamp = runID, providerID, ts
	return nil
}

// MarshalJSON implements custom JSON marshaling for Error
func (e Error) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(errorJSON, e.RunID, e.ProviderID)
	if err != nil {
		return nil, err
	}
	result, err = sjson.SetBytes(result, "error", e.Message)
	if err != nil {
		return nil, err
	}
	return marshalTimestamp(result, e.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Error
func (e *Error) UnmarshalJSON(data []byte) error {
	runID, providerID, ts, err := unmarshalHeader(data, KindError, true)
	if err != nil {
		return err
	}
	msg := gjson.GetBytes(data, "error")
	if !msg.Exists() {
		return fmt.Errorf("missing required field 'error'")
	}
	e.RunID, e.ProviderID, e.Message, e.Timestamp = runID, providerID, msg.String(), ts
	return nil
}

// MarshalJSON implements custom JSON marshaling for Synthesis
func (s Synthesis) MarshalJSON() ([]byte, error) {
	result, err := marshalHeader(synthesisJSON, s.RunID, "")
	if err != nil {
		return nil, err
	}
	if s.Err != "" {
		result, err = sjson.SetBytes(result, "error", s.Err)
	} else {
		result, err = sjson.SetBytes(result, "text", s.Text)
	}
	if err != nil {
		return nil, err
	}
	return marshalTimestamp(result, s.Timestamp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Synthesis
func (s *Synthesis) UnmarshalJSON(data []byte) error {
	runID, _, ts, err := unmarshalHeader(data, KindSynthesis, false)
	if err != nil {
		return err
	}
	text := gjson.GetBytes(data, "text")
	msg := gjson.GetBytes(data, "error")
	if !text.Exists() && !msg.Exists() {
		return fmt.Errorf("missing required field 'text' or 'error'")
	}
	s.RunID, s.Text, s.Err, s.Timestamp = runID, text.String(), msg.String(), ts
	return nil
}
