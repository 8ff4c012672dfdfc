package extension

import (
	"fmt"
	"strings"
)

// UnboundExtensionError is returned when an extension name has no binding.
type UnboundExtensionError struct {
	Name string
}

func (e *UnboundExtensionError) Error() string {
	return fmt.Sprintf("extension '%s' is not bound", e.Name)
}

// ResolutionError is returned when the bound component cannot be produced,
// or when it does not provide the capability the caller asked for.
type ResolutionError struct {
	Name string
	Key  string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to resolve extension '%s': %v", e.Name, e.Err)
	}
	return fmt.Sprintf("failed to resolve extension '%s' (ref '%s'): %v", e.Name, e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FrozenRegistryError is returned by mutations attempted after Freeze.
type FrozenRegistryError struct {
	Op   string
	Name string
}

func (e *FrozenRegistryError) Error() string {
	return fmt.Sprintf("cannot %s extension '%s': registry is frozen", e.Op, e.Name)
}

// CyclicResolutionError is returned when resolving an extension requires,
// directly or transitively, the extension itself.
type CyclicResolutionError struct {
	// Path lists the extension names in resolution order; the last entry is
	// the one that closed the cycle.
	Path []string
	// Concurrent is set when the cycle was closed by a resolution running on
	// another goroutine.
	Concurrent bool
}

func (e *CyclicResolutionError) Error() string {
	msg := "cyclic extension resolution: " + strings.Join(e.Path, " -> ")
	if e.Concurrent {
		msg += " (held by a concurrent resolution)"
	}
	return msg
}
