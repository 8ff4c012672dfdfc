package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories,
	// translates it into the format-agnostic model, and returns a matching
	// Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter bridges raw configuration and the Go types used by modules.
type Converter interface {
	// DecodeBody decodes a component's arguments body into target, a
	// pointer to a struct tagged for the configuration format. A nil body
	// decodes as empty, so required fields still fail.
	DecodeBody(ctx context.Context, body hcl.Body, target any) error

	// ToCtyValue converts a native Go value (typically a module's output
	// struct) into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
