package reftable

import "fmt"

// Binding associates an extension name with the key of the component that
// implements it. Bindings are values and never change after creation.
type Binding struct {
	ExtensionName string
	TargetKey     string
	// Origin is a human-readable location of the declaration, used only in
	// diagnostics. It does not take part in conflict detection.
	Origin string
}

// NewBinding returns a Binding without origin information.
func NewBinding(extensionName, targetKey string) Binding {
	return Binding{ExtensionName: extensionName, TargetKey: targetKey}
}

func (b Binding) String() string {
	if b.Origin == "" {
		return fmt.Sprintf("%s -> %s", b.ExtensionName, b.TargetKey)
	}
	return fmt.Sprintf("%s -> %s (%s)", b.ExtensionName, b.TargetKey, b.Origin)
}

// DuplicateBindingError reports an attempt to bind an extension name that is
// already bound to a different target key.
type DuplicateBindingError struct {
	Existing  Binding
	Requested Binding
}

func (e *DuplicateBindingError) Error() string {
	msg := fmt.Sprintf("extension '%s' is already bound to '%s', cannot bind it to '%s'",
		e.Existing.ExtensionName, e.Existing.TargetKey, e.Requested.TargetKey)
	if e.Existing.Origin != "" {
		msg += fmt.Sprintf(" (first bound at %s)", e.Existing.Origin)
	}
	return msg
}
