package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/extension"
	"github.com/specialistvlad/extgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Invoke resolves the named extension as a registry.Invoker and calls it.
func (a *App) Invoke(ctx context.Context, name string, args map[string]string) (any, error) {
	ctx, _ = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "extension", name)
	point := extension.NewPoint[registry.Invoker](a.extensions, name)

	inv, err := point.Invoke(ctx)
	if err != nil {
		return nil, err
	}
	return inv.Invoke(ctx, args)
}

// Render encodes a module output as JSON. Outputs are converted through cty
// so that `cty` struct tags name the fields; values cty cannot describe fall
// back to encoding/json.
func (a *App) Render(v any) ([]byte, error) {
	val, err := a.converter.ToCtyValue(v)
	if err != nil {
		a.logger.Debug("Output has no cty representation, using encoding/json.", "type", fmt.Sprintf("%T", v), "error", err)
		return json.Marshal(v)
	}
	if val == cty.NilVal {
		return []byte("null"), nil
	}
	return ctyjson.Marshal(val, val.Type())
}
