package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/extgrid/internal/app"
	"github.com/specialistvlad/extgrid/internal/hcl_adapter"
	"github.com/specialistvlad/extgrid/internal/naming"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

func runtimeError(format string, err error) *ExitError {
	return &ExitError{Code: 1, Message: fmt.Sprintf(format, err)}
}

// Execute runs the command line. Usage problems surface as an ExitError
// with code 2, failures at runtime with code 1. Help output returns nil.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

// NewRootCommand builds the extgrid command tree. Results are written to outW,
// logs and usage to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("EXTGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "extgrid",
		Short: "An extension-point registry driven by HCL configuration",
		Long: `extgrid loads components and extension point bindings from HCL files,
freezes them into a registry, and lets you inspect, invoke, or serve the
bound extensions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringSliceP("config", "c", nil, "HCL file or directory to load (repeatable).")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("naming", "sequence", "Binding record ID strategy. Options: 'sequence' or 'uuid'.")
	flags.Bool("eager", false, "Resolve every extension right after loading.")
	for _, name := range []string{"config", "log-level", "log-format", "naming", "eager"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newInspectCommand(v, outW, errW),
		newInvokeCommand(v, outW, errW),
		newServeCommand(v, outW, errW),
	)
	return root
}

// newApp builds the application from the merged flag and environment values.
func newApp(v *viper.Viper, outW, errW io.Writer) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths: v.GetStringSlice("config"),
		LogFormat:   strings.ToLower(v.GetString("log-format")),
		LogLevel:    strings.ToLower(v.GetString("log-level")),
		Naming:      v.GetString("naming"),
		Eager:       v.GetBool("eager"),
		Port:        v.GetInt("port"),
	})
	if err != nil {
		return nil, usageError(err)
	}

	names, err := naming.ByName(cfg.Naming)
	if err != nil {
		return nil, usageError(err)
	}

	a, err := app.NewApp(outW, errW, cfg, hcl_adapter.NewLoader(names))
	if err != nil {
		return nil, runtimeError("failed to start: %v", err)
	}
	return a, nil
}

// closeApp folds the application's close error into err.
func closeApp(a *app.App, err error) error {
	if closeErr := a.Close(); closeErr != nil && err == nil {
		return runtimeError("failed to close extensions: %v", closeErr)
	}
	return err
}
