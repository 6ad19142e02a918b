package api

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrEmptyPrompt    = fmt.Errorf("%w: prompt must not be empty", ErrInvalidRequest)
	ErrNoProviders    = fmt.Errorf("%w: at least one provider id is required", ErrInvalidRequest)
)

// Request asks for one prompt to be answered by several providers.
//
// ProviderIDs keeps the caller's order and may contain duplicates; every
// occurrence becomes its own participant.
type Request struct {
	Prompt           string   `json:"prompt" jsonschema:"required,minLength=1,description=The prompt sent to every selected provider"`
	ProviderIDs      []string `json:"providerIds" jsonschema:"required,minItems=1,description=Ordered provider ids to fan the prompt out to"`
	IncludeSynthesis bool     `json:"includeSynthesis,omitempty" jsonschema:"default=false,description=Append a cross-provider summary once every provider finished"`
}

// Validate rejects requests that cannot start any producer.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if len(r.ProviderIDs) == 0 {
		return ErrNoProviders
	}
	return nil
}

// UnmarshalJSON decodes a request. The modelIds key is accepted as an alias
// of providerIds for clients of the original web UI.
func (r *Request) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed json", ErrInvalidRequest)
	}

	type plain Request
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(p.ProviderIDs) == 0 {
		if ids := gjson.GetBytes(data, "modelIds"); ids.IsArray() {
			for _, id := range ids.Array() {
				p.ProviderIDs = append(p.ProviderIDs, id.String())
			}
		}
	}
	*r = Request(p)
	return nil
}
