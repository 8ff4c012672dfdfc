package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/extgrid/internal/reftable"
)

// Model is the unified representation of every loaded configuration file.
type Model struct {
	Components map[string]*Component
	Extensions []*ExtensionBinding
	Overrides  []*ExtensionBinding
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{Components: make(map[string]*Component)}
}

// Component is a named instance of a module-provided component type.
type Component struct {
	Name string
	Type string
	// Arguments is the raw arguments body, decoded lazily by the Converter
	// when the component is first constructed. Nil when omitted.
	Arguments hcl.Body
	Origin    string
}

// ExtensionBinding is one `extension_point` or `override` declaration.
type ExtensionBinding struct {
	// ID is generated by the loader and unique per load.
	ID            string
	ExtensionName string
	Ref           string
	Origin        string
}

// Binding converts the declaration into a reference table binding.
func (b *ExtensionBinding) Binding() reftable.Binding {
	return reftable.Binding{
		ExtensionName: b.ExtensionName,
		TargetKey:     b.Ref,
		Origin:        b.Origin,
	}
}
