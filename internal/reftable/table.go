package reftable

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNotBound is returned by Replace for a name that has no binding.
var ErrNotBound = errors.New("extension is not bound")

// Table is the reference table: extension name to Binding, in registration order.
type Table struct {
	order    []string
	bindings map[string]Binding
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		bindings: make(map[string]Binding),
	}
}

// Register adds a binding. It reports whether the binding was new; an
// identical re-registration returns false and no error.
func (t *Table) Register(b Binding) (bool, error) {
	if b.ExtensionName == "" {
		return false, errors.New("extension name must not be empty")
	}
	if b.TargetKey == "" {
		return false, fmt.Errorf("extension '%s': target key must not be empty", b.ExtensionName)
	}

	if existing, ok := t.bindings[b.ExtensionName]; ok {
		if existing.TargetKey == b.TargetKey {
			return false, nil
		}
		return false, &DuplicateBindingError{Existing: existing, Requested: b}
	}

	t.bindings[b.ExtensionName] = b
	t.order = append(t.order, b.ExtensionName)
	return true, nil
}

// Replace swaps the target key of an existing binding, keeping its position
// in registration order.
func (t *Table) Replace(b Binding) error {
	if _, ok := t.bindings[b.ExtensionName]; !ok {
		return fmt.Errorf("%w: '%s'", ErrNotBound, b.ExtensionName)
	}
	if b.TargetKey == "" {
		return fmt.Errorf("extension '%s': target key must not be empty", b.ExtensionName)
	}
	t.bindings[b.ExtensionName] = b
	return nil
}

// Get returns the target key bound to name.
func (t *Table) Get(name string) (string, bool) {
	b, ok := t.bindings[name]
	return b.TargetKey, ok
}

// Lookup returns the full binding for name.
func (t *Table) Lookup(name string) (Binding, bool) {
	b, ok := t.bindings[name]
	return b, ok
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.order)
}

// All yields the bindings in registration order. The sequence reads the
// table lazily and may be iterated any number of times.
func (t *Table) All() iter.Seq[Binding] {
	return func(yield func(Binding) bool) {
		for _, name := range t.order {
			if !yield(t.bindings[name]) {
				return
			}
		}
	}
}
