package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/extgrid/internal/config"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between the configured
// components and the factories compiled into the binary.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		def := r.components[name]
		if _, ok := r.factories[def.Type]; !ok {
			errs = append(errs, fmt.Sprintf("component '%s' (%s): unknown type '%s'; known types: %s",
				name, def.Origin, def.Type, strings.Join(r.Types(), ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "components", len(r.components), "types", len(r.factories))
	return nil
}

// DanglingReferences returns the bindings in the model whose ref names no
// configured component. They are not fatal because resolution is lazy.
func (r *Registry) DanglingReferences(model *config.Model) []*config.ExtensionBinding {
	var out []*config.ExtensionBinding
	for _, list := range [][]*config.ExtensionBinding{model.Extensions, model.Overrides} {
		for _, b := range list {
			if _, ok := r.Component(b.Ref); !ok {
				out = append(out, b)
			}
		}
	}
	return out
}
