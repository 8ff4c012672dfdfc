package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/extgrid/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_ParseErrorIsReported(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an invalid HCL file makes startup fail.
	invalidHCL := `
		extension_point "payment.gateway" {
			ref = "stripeBean"
		// Missing closing brace here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	var out, errOut bytes.Buffer

	// --- Act ---
	runErr := run(context.Background(), &out, &errOut, []string{"inspect", "-c", filePath})

	// --- Assert ---
	require.Error(t, runErr)
	var exitErr *cli.ExitError
	require.True(t, errors.As(runErr, &exitErr))
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	err := run(context.Background(), &out, &errOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	err := run(context.Background(), &out, &errOut, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
