package provider

import (
	"context"
	"iter"
	"strings"
)

// Provider is a named backend capable of streaming a textual reply to a prompt.
type Provider interface {
	ID() string
	Name() string
	Stream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// Metadata describes traits of a provider that are useful for listing and
// for future selection strategies.
type Metadata struct {
	IsLocal bool `json:"is_local"`
}

// Describer is implemented by providers that expose Metadata.
type Describer interface {
	Metadata() Metadata
}

// Describe returns the metadata of p, or the zero Metadata when p does not
// implement Describer.
func Describe(p Provider) Metadata {
	if d, ok := p.(Describer); ok {
		return d.Metadata()
	}
	return Metadata{}
}

// Collect drains a stream into a single string. It stops at the first error
// and returns the text gathered so far along with it.
func Collect(ctx context.Context, p Provider, prompt string) (string, error) {
	var sb strings.Builder
	for fragment, err := range p.Stream(ctx, prompt) {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}
