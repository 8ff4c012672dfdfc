package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/extgrid/internal/config"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/fsutil"
	"github.com/specialistvlad/extgrid/internal/naming"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	names naming.Generator
}

// NewLoader creates a new HCL configuration loader. A nil generator falls
// back to a per-load sequence.
func NewLoader(names naming.Generator) *Loader {
	return &Loader{names: names}
}

// Load parses every HCL file found under paths and merges all blocks into a
// single model. Syntax errors, unknown blocks and duplicate component names
// abort the load.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	names := l.names
	if names == nil {
		names = naming.NewSequence()
	}

	files, err := fsutil.FindFiles(paths, ".hcl", ".hcl.json")
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		logger.Warn("No HCL configuration files found.", "paths", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		root, err := parseFile(parser, file)
		if err != nil {
			return nil, nil, err
		}

		for _, c := range root.Components {
			if err := l.translateComponent(ctx, model, c); err != nil {
				return nil, nil, err
			}
		}
		for _, b := range root.Extensions {
			def, err := l.translateBinding(ctx, b, names.Generate("extension_point"))
			if err != nil {
				return nil, nil, err
			}
			model.Extensions = append(model.Extensions, def)
		}
		for _, b := range root.Overrides {
			def, err := l.translateBinding(ctx, b, names.Generate("override"))
			if err != nil {
				return nil, nil, err
			}
			model.Overrides = append(model.Overrides, def)
		}
		logger.Debug("Loaded definitions from HCL file.", "file", file,
			"components", len(root.Components), "extension_points", len(root.Extensions), "overrides", len(root.Overrides))
	}

	logger.Debug("HCL loading complete.",
		"components", len(model.Components), "extension_points", len(model.Extensions), "overrides", len(model.Overrides))
	return model, NewConverter(), nil
}

func parseFile(parser *hclparse.Parser, file string) (*fileRoot, error) {
	var (
		hclFile *hcl.File
		diags   hcl.Diagnostics
	)
	if strings.HasSuffix(file, ".json") {
		hclFile, diags = parser.ParseJSONFile(file)
	} else {
		hclFile, diags = parser.ParseHCLFile(file)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	return &root, nil
}
