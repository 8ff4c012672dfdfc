// This file translates the HCL schema structs into the format-agnostic
// configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/extgrid/internal/config"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
)

func (l *Loader) translateComponent(ctx context.Context, model *config.Model, c *componentBlock) error {
	logger := ctxlog.FromContext(ctx).With("component", c.Name, "type", c.Type)

	if c.Name == "" {
		return fmt.Errorf("%s: component name must not be empty", c.DeclRange)
	}
	if c.Type == "" {
		return fmt.Errorf("%s: component '%s' must declare a type", c.DeclRange, c.Name)
	}
	if existing, ok := model.Components[c.Name]; ok {
		return fmt.Errorf("component '%s' is declared twice: at %s and at %s", c.Name, existing.Origin, c.DeclRange)
	}

	def := &config.Component{
		Name:   c.Name,
		Type:   c.Type,
		Origin: c.DeclRange.String(),
	}
	if c.Arguments != nil {
		def.Arguments = c.Arguments.Body
	}

	logger.Debug("Translated component block.", "has_arguments", def.Arguments != nil)
	model.Components[c.Name] = def
	return nil
}

func (l *Loader) translateBinding(ctx context.Context, b *bindingBlock, id string) (*config.ExtensionBinding, error) {
	if b.ExtensionName == "" {
		return nil, fmt.Errorf("%s: extension name must not be empty", b.DeclRange)
	}
	if b.Ref == "" {
		return nil, fmt.Errorf("%s: extension '%s' must declare a non-empty ref", b.DeclRange, b.ExtensionName)
	}

	ctxlog.FromContext(ctx).Debug("Translated binding block.", "id", id, "extension", b.ExtensionName, "ref", b.Ref)
	return &config.ExtensionBinding{
		ID:            id,
		ExtensionName: b.ExtensionName,
		Ref:           b.Ref,
		Origin:        b.DeclRange.String(),
	}, nil
}
