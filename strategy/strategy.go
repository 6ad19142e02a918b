// Package strategy decides which registered providers take part in a request.
package strategy

import (
	"context"
	"log/slog"

	"github.com/casualjim/lynx/api"
	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/provider"
)

// Strategy returns the ordered participants for a request. Implementations
// must not block and must not mutate the registry.
type Strategy interface {
	SelectProviders(ctx context.Context, req api.Request, registry *provider.Registry) []provider.Provider
}

// Func adapts a plain function to the Strategy interface.
type Func func(ctx context.Context, req api.Request, registry *provider.Registry) []provider.Provider

func (f Func) SelectProviders(ctx context.Context, req api.Request, registry *provider.Registry) []provider.Provider {
	return f(ctx, req, registry)
}

var _ Strategy = Manual{}

// Manual selects providers by the ids listed in the request, in request
// order. Unknown ids are skipped with a warning.
type Manual struct{}

func (Manual) SelectProviders(ctx context.Context, req api.Request, registry *provider.Registry) []provider.Provider {
	selected := make([]provider.Provider, 0, len(req.ProviderIDs))
	for _, id := range req.ProviderIDs {
		p, found := registry.Get(id)
		if !found {
			slog.WarnContext(ctx, "provider not found in registry", slogx.ProviderID(id))
			continue
		}
		selected = append(selected, p)
	}
	return selected
}

// LocalOnly narrows the selection of next to providers running on the local machine.
func LocalOnly(next Strategy) Strategy {
	return Func(func(ctx context.Context, req api.Request, registry *provider.Registry) []provider.Provider {
		candidates := next.SelectProviders(ctx, req, registry)
		selected := make([]provider.Provider, 0, len(candidates))
		for _, p := range candidates {
			if provider.Describe(p).IsLocal {
				selected = append(selected, p)
				continue
			}
			slog.DebugContext(ctx, "skipping remote provider", slogx.ProviderID(p.ID()))
		}
		return selected
	})
}
