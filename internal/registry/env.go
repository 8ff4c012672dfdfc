package registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/extgrid/internal/config"
)

// Env is what a factory sees of the component it is building.
type Env struct {
	Name string
	Type string
	Out  io.Writer

	extensions Extensions
	def        *config.Component
	converter  config.Converter
}

// Decode decodes the component's `arguments` block into target.
func (e *Env) Decode(ctx context.Context, target any) error {
	if e.def == nil || e.def.Arguments == nil {
		if e.converter == nil {
			return nil
		}
		return e.converter.DecodeBody(ctx, nil, target)
	}
	if e.converter == nil {
		return errors.New("no converter available to decode component arguments")
	}
	if err := e.converter.DecodeBody(ctx, e.def.Arguments, target); err != nil {
		return fmt.Errorf("component '%s' (%s): invalid arguments: %w", e.Name, e.def.Origin, err)
	}
	return nil
}

// Resolve resolves another extension point. Factories must pass the context
// they were given so that dependency cycles are detected.
func (e *Env) Resolve(ctx context.Context, name string) (any, error) {
	if e.extensions == nil {
		return nil, fmt.Errorf("component '%s' cannot resolve extension '%s': no extension registry attached", e.Name, name)
	}
	return e.extensions.Resolve(ctx, name)
}

// ResolveInvoker resolves another extension point and requires it to be an
// Invoker.
func (e *Env) ResolveInvoker(ctx context.Context, name string) (Invoker, error) {
	c, err := e.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	inv, ok := c.(Invoker)
	if !ok {
		return nil, fmt.Errorf("extension '%s' is a %T, which is not invocable", name, c)
	}
	return inv, nil
}
