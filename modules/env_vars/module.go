package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/extgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for an env_vars component.
type Input struct {
	Prefix string `hcl:"prefix,optional"`
}

// Output defines the data structure returned by the component.
type Output struct {
	All map[string]string `cty:"all"`
}

// Reader exposes process environment variables, optionally limited to a
// prefix.
type Reader struct {
	prefix  string
	environ func() []string
}

// Invoke returns the matching environment. A "name" argument narrows the
// result to one variable.
func (e *Reader) Invoke(_ context.Context, args map[string]string) (any, error) {
	only := args["name"]

	envMap := make(map[string]string)
	for _, entry := range e.environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, e.prefix) {
			continue
		}
		if only != "" && key != only {
			continue
		}
		envMap[key] = value
	}

	return &Output{All: envMap}, nil
}

// Register registers the component factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("env_vars", func(ctx context.Context, env *registry.Env) (any, error) {
		var input Input
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		return &Reader{prefix: input.Prefix, environ: os.Environ}, nil
	})
}
