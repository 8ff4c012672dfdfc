// Package http_client provides an HTTP endpoint component. Each instance owns
// a pooled *http.Client that is released when the registry closes.
package http_client

import (
	"context"

	"github.com/specialistvlad/extgrid/internal/registry"
)

// Module implements the registry.Module interface. It's the main entrypoint
// for the http_client module.
type Module struct{}

// Register registers the http_client component factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("http_client", func(ctx context.Context, env *registry.Env) (any, error) {
		var input Input
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		return newClient(env.Name, &input)
	})
}
