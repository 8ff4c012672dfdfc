package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles writes every file into a fresh temporary directory and returns
// its root. Keys are slash-separated paths relative to the root, so
// "conf/a.hcl" creates the "conf" subdirectory as needed.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// WriteHCL writes a single main.hcl file and returns its path.
func WriteHCL(t *testing.T, content string) string {
	t.Helper()
	root := WriteFiles(t, map[string]string{"main.hcl": content})
	return filepath.Join(root, "main.hcl")
}
