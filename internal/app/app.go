package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/extgrid/internal/config"
	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/extension"
	"github.com/specialistvlad/extgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	model      *config.Model
	converter  config.Converter
	components *registry.Registry
	extensions *extension.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the
// configuration, applies every binding and override, and freezes the
// extension registry. Any configuration error aborts construction.
//
// Results are written to outW and logs to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the component container with Go factories.
	components := registry.New()
	components.SetOutput(outW)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(components)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "types", components.Types())

	components.PopulateDefinitionsFromModel(cfgModel, converter)
	if err := components.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	for _, b := range components.DanglingReferences(cfgModel) {
		logger.Warn("Extension refers to an undeclared component; resolving it will fail.",
			"extension", b.ExtensionName, "ref", b.Ref, "origin", b.Origin)
	}

	extensions := extension.New(components)
	components.UseExtensions(extensions)

	if err := applyBindings(ctx, extensions, cfgModel); err != nil {
		return nil, err
	}
	extensions.Freeze()
	logger.Info("Extension registry frozen.", "extensions", extensions.Len())

	a := &App{
		outW:       outW,
		logger:     logger,
		ctx:        ctx,
		config:     appConfig,
		model:      cfgModel,
		converter:  converter,
		components: components,
		extensions: extensions,
	}

	if appConfig.Eager {
		if err := extensions.ResolveAll(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("eager resolution failed: %w", err), a.Close())
		}
		logger.Info("All extensions resolved eagerly.")
	}

	return a, nil
}

// applyBindings registers every declared extension point, then applies the
// overrides in declaration order. The first failure aborts.
func applyBindings(ctx context.Context, ext *extension.Registry, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	for _, def := range model.Extensions {
		if err := ext.RegisterBinding(def.Binding()); err != nil {
			return fmt.Errorf("failed to apply extension_point %s: %w", def.ID, err)
		}
		logger.Debug("Extension bound.", "id", def.ID, "extension", def.ExtensionName, "ref", def.Ref)
	}
	for _, def := range model.Overrides {
		if err := ext.RebindBinding(def.Binding()); err != nil {
			return fmt.Errorf("failed to apply override %s: %w", def.ID, err)
		}
		logger.Debug("Extension overridden.", "id", def.ID, "extension", def.ExtensionName, "ref", def.Ref)
	}
	return nil
}

// Extensions returns the application's frozen extension registry.
func (a *App) Extensions() *extension.Registry {
	return a.extensions
}

// Components returns the application's component container. This is
// primarily for testing.
func (a *App) Components() *registry.Registry {
	return a.components
}

// Context returns the application's base context, which carries its logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// Close releases every resolved extension that holds resources.
func (a *App) Close() error {
	a.logger.Debug("Closing application.")
	return a.extensions.Close(a.ctx)
}
