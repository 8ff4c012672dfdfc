// Package fallback provides a component that delegates to a list of other
// extension points and returns the first successful result.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for a fallback component.
type Input struct {
	Extensions []string `hcl:"extensions"`
}

type delegate struct {
	name    string
	invoker registry.Invoker
}

// Chain tries each delegate in order.
type Chain struct {
	name      string
	delegates []delegate
}

// Invoke returns the result of the first delegate that succeeds, or every
// delegate's error joined when all of them fail.
func (c *Chain) Invoke(ctx context.Context, args map[string]string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("component", c.name)

	var errs []error
	for _, d := range c.delegates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := d.invoker.Invoke(ctx, args)
		if err == nil {
			logger.Debug("Delegate succeeded.", "extension", d.name)
			return out, nil
		}
		logger.Warn("Delegate failed, trying next.", "extension", d.name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
	}
	return nil, fmt.Errorf("all %d delegates of '%s' failed: %w", len(c.delegates), c.name, errors.Join(errs...))
}

// Register registers the component factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("fallback", func(ctx context.Context, env *registry.Env) (any, error) {
		var input Input
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		if len(input.Extensions) == 0 {
			return nil, fmt.Errorf("component '%s' must list at least one extension", env.Name)
		}

		chain := &Chain{name: env.Name}
		for _, name := range input.Extensions {
			inv, err := env.ResolveInvoker(ctx, name)
			if err != nil {
				return nil, err
			}
			chain.delegates = append(chain.delegates, delegate{name: name, invoker: inv})
		}
		return chain, nil
	})
}
