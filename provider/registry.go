package provider

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/alphadose/haxmap"
)

var (
	ErrDuplicateProvider = errors.New("duplicate provider id")
	ErrInvalidProvider   = errors.New("invalid provider")
)

// Registry maps provider ids to providers. It is built once and is read-only
// afterwards, which makes it safe to share between concurrent orchestrations.
type Registry struct {
	values *haxmap.Map[string, Provider]
	ids    []string
}

// NewRegistry builds a registry from providers, preserving their order.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{
		values: haxmap.New[string, Provider](),
		ids:    make([]string, 0, len(providers)),
	}
	for _, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("%w: nil provider", ErrInvalidProvider)
		}
		id := p.ID()
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %q has an empty id", ErrInvalidProvider, p.Name())
		}
		if _, found := r.values.Get(id); found {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, id)
		}
		r.values.Set(id, p)
		r.ids = append(r.ids, id)
	}
	return r, nil
}

// Get looks up a provider by id.
func (r *Registry) Get(id string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	return r.values.Get(id)
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ids)
}

// All iterates over the providers in registration order.
func (r *Registry) All() iter.Seq[Provider] {
	return func(yield func(Provider) bool) {
		if r == nil {
			return
		}
		for _, id := range r.ids {
			p, _ := r.values.Get(id)
			if !yield(p) {
				return
			}
		}
	}
}
