package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInspectCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List every extension binding and its resolution status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(v, outW, errW)
			if err != nil {
				return err
			}
			defer func() { err = closeApp(a, err) }()

			if err := a.Inspect(outW); err != nil {
				return runtimeError("failed to write report: %v", err)
			}
			return nil
		},
	}
}

func newInvokeCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	var rawArgs []string

	cmd := &cobra.Command{
		Use:   "invoke NAME",
		Short: "Resolve an extension point and invoke its component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) (err error) {
			args, err := parseArgs(rawArgs)
			if err != nil {
				return usageError(err)
			}

			a, err := newApp(v, outW, errW)
			if err != nil {
				return err
			}
			defer func() { err = closeApp(a, err) }()

			result, err := a.Invoke(cmd.Context(), positional[0], args)
			if err != nil {
				return runtimeError("invocation failed: %v", err)
			}
			rendered, err := a.Render(result)
			if err != nil {
				return runtimeError("failed to render result: %v", err)
			}
			fmt.Fprintln(outW, string(rendered))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rawArgs, "arg", "a", nil, "Invocation argument as key=value (repeatable).")
	return cmd
}

func newServeCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health, listing and invocation endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(v, outW, errW)
			if err != nil {
				return err
			}
			defer func() { err = closeApp(a, err) }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.Serve(ctx); err != nil {
				return runtimeError("server failed: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().Int("port", 8080, "Port for the HTTP server.")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

// parseArgs turns repeated key=value flags into an argument map.
func parseArgs(raw []string) (map[string]string, error) {
	args := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg '%s': expected key=value", kv)
		}
		args[key] = value
	}
	return args, nil
}
