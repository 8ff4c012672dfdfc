package print

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for a print component.
type Input struct {
	Prefix string `hcl:"prefix,optional"`
}

// Output is returned by every invocation.
type Output struct {
	Printed int `cty:"printed"`
}

// Printer writes invocation arguments to the application's output.
type Printer struct {
	name   string
	prefix string

	mu  sync.Mutex
	out io.Writer
}

// Invoke prints the arguments sorted by key.
func (p *Printer) Invoke(ctx context.Context, args map[string]string) (any, error) {
	ctxlog.FromContext(ctx).Info("Printing input", "component", p.name, "count", len(args))

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(args) == 0 {
		fmt.Fprintf(p.out, "%s(null)\n", p.prefix)
		return &Output{}, nil
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(p.out, "%s%s = %q\n", p.prefix, k, args[k])
	}

	return &Output{Printed: len(keys)}, nil
}

// Register registers the component factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("print", func(ctx context.Context, env *registry.Env) (any, error) {
		var input Input
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		return &Printer{name: env.Name, prefix: input.Prefix, out: env.Out}, nil
	})
}
