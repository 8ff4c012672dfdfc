package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	evalCtx *hcl.EvalContext
}

// NewConverter creates a new HCL converter whose expressions can read the
// current process environment.
func NewConverter() *Converter {
	return &Converter{evalCtx: newEvalContext()}
}

// DecodeBody implements config.Converter using gohcl struct tags.
func (c *Converter) DecodeBody(ctx context.Context, body hcl.Body, target any) error {
	if body == nil {
		body = hcl.EmptyBody()
	}
	diags := gohcl.DecodeBody(body, c.evalCtx, target)
	if diags.HasErrors() {
		return diags
	}
	ctxlog.FromContext(ctx).Debug("Decoded component arguments.", "target", fmt.Sprintf("%T", target))
	return nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
