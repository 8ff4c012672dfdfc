package extension

import (
	"context"
	"fmt"
	"reflect"
)

// Source is what a Point resolves against. *Registry implements it.
type Source interface {
	Resolve(ctx context.Context, name string) (Capability, error)
}

// Point is the handle application code holds for an extension slot. It may
// be created before the extension is bound; only Invoke can fail. A Point
// caches nothing, so it always reflects the registry's current binding.
type Point[T any] struct {
	name   string
	source Source
}

// NewPoint returns a handle for the extension name whose capability is
// expected to be a T.
func NewPoint[T any](source Source, name string) *Point[T] {
	return &Point[T]{name: name, source: source}
}

// Name returns the extension name this point is keyed by.
func (p *Point[T]) Name() string {
	return p.name
}

// Invoke resolves the extension and returns it as a T.
func (p *Point[T]) Invoke(ctx context.Context) (T, error) {
	var zero T
	c, err := p.source.Resolve(ctx, p.name)
	if err != nil {
		return zero, err
	}
	v, ok := c.(T)
	if !ok {
		return zero, &ResolutionError{
			Name: p.name,
			Err:  fmt.Errorf("component of type %T does not implement %s", c, reflect.TypeFor[T]()),
		}
	}
	return v, nil
}
