package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/specialistvlad/extgrid/internal/config"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
)

// ErrComponentNotFound is returned by Lookup for keys that name no component.
var ErrComponentNotFound = errors.New("component not found")

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a live component instance from its configuration.
type Factory func(ctx context.Context, env *Env) (any, error)

// Invoker is implemented by components that can be called from the CLI and
// the HTTP surface.
type Invoker interface {
	Invoke(ctx context.Context, args map[string]string) (any, error)
}

// Extensions resolves extension names. It lets a factory depend on other
// extension points.
type Extensions interface {
	Resolve(ctx context.Context, name string) (any, error)
}

// Registry holds all the registered factories and component definitions for
// a single application instance. It is populated once during startup and is
// safe for concurrent lookups afterwards.
type Registry struct {
	factories  map[string]Factory
	components map[string]*config.Component
	converter  config.Converter
	extensions Extensions
	out        io.Writer
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		factories:  make(map[string]Factory),
		components: make(map[string]*config.Component),
		out:        os.Stdout,
	}
}

// RegisterFactory registers the factory for a component type.
func (r *Registry) RegisterFactory(componentType string, factory Factory) {
	if _, exists := r.factories[componentType]; exists {
		panic(fmt.Sprintf("component factory for type '%s' already registered", componentType))
	}
	r.factories[componentType] = factory
}

// PopulateDefinitionsFromModel copies the component definitions from the
// config model into the registry, together with the converter used to decode
// their arguments.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model, converter config.Converter) {
	for key, val := range model.Components {
		r.components[key] = val
	}
	r.converter = converter
}

// UseExtensions makes the extension registry available to factories.
func (r *Registry) UseExtensions(ext Extensions) {
	r.extensions = ext
}

// SetOutput sets the writer handed to factories for user-facing output.
func (r *Registry) SetOutput(w io.Writer) {
	r.out = w
}

// Types returns the registered component types in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Component returns the definition of a configured component.
func (r *Registry) Component(name string) (*config.Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Lookup builds a fresh instance of the named component. Unknown names
// return an error wrapping ErrComponentNotFound.
func (r *Registry) Lookup(ctx context.Context, key string) (any, error) {
	def, ok := r.components[key]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrComponentNotFound, key)
	}
	factory, ok := r.factories[def.Type]
	if !ok {
		return nil, fmt.Errorf("component '%s' has unknown type '%s'", key, def.Type)
	}

	logger := ctxlog.FromContext(ctx).With("component", key, "type", def.Type)
	logger.Debug("Constructing component.")

	instance, err := factory(ctx, &Env{
		Name:       key,
		Type:       def.Type,
		Out:        r.out,
		extensions: r.extensions,
		def:        def,
		converter:  r.converter,
	})
	if err != nil {
		logger.Debug("Component construction failed.", "error", err)
		return nil, err
	}
	logger.Debug("Component constructed.", "instance_type", fmt.Sprintf("%T", instance))
	return instance, nil
}
