package testutil

import (
	"context"
	"sync/atomic"

	"github.com/specialistvlad/extgrid/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single component factory.
type SimpleModule struct {
	Type    string
	Factory registry.Factory
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Type != "" && m.Factory != nil {
		r.RegisterFactory(m.Type, m.Factory)
	}
}

// EchoInput is the argument schema of the echo component.
type EchoInput struct {
	Message string `hcl:"message,optional"`
}

// Echo is an invoker that returns its configured message merged with the
// invocation arguments.
type Echo struct {
	Name    string
	Message string
}

// Invoke implements registry.Invoker.
func (e *Echo) Invoke(_ context.Context, args map[string]string) (any, error) {
	out := map[string]string{"component": e.Name, "message": e.Message}
	for k, v := range args {
		out[k] = v
	}
	return out, nil
}

// EchoModule registers an "echo" component type and counts constructions.
type EchoModule struct {
	Constructions atomic.Int32
}

// Register implements the registry.Module interface.
func (m *EchoModule) Register(r *registry.Registry) {
	r.RegisterFactory("echo", func(ctx context.Context, env *registry.Env) (any, error) {
		var input EchoInput
		if err := env.Decode(ctx, &input); err != nil {
			return nil, err
		}
		m.Constructions.Add(1)
		return &Echo{Name: env.Name, Message: input.Message}, nil
	})
}
