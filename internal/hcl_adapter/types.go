package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a configuration file may contain.
type fileRoot struct {
	Components []*componentBlock `hcl:"component,block"`
	Extensions []*bindingBlock   `hcl:"extension_point,block"`
	Overrides  []*bindingBlock   `hcl:"override,block"`
}

// componentBlock is `component "<name>" { type = "..." arguments { ... } }`.
type componentBlock struct {
	Name      string          `hcl:"name,label"`
	Type      string          `hcl:"type"`
	Arguments *argumentsBlock `hcl:"arguments,block"`
	DeclRange hcl.Range       `hcl:",def_range"`
}

// argumentsBlock keeps the arguments body undecoded; its schema belongs to
// the module that implements the component type.
type argumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// bindingBlock is `extension_point "<extension-name>" { ref = "<component>" }`
// and the identically shaped `override` block.
type bindingBlock struct {
	ExtensionName string    `hcl:"extension_name,label"`
	Ref           string    `hcl:"ref"`
	DeclRange     hcl.Range `hcl:",def_range"`
}
