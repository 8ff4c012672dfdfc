package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# test"), 0o600))
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.hcl"))
	writeFile(t, filepath.Join(dir, "a.hcl"))
	writeFile(t, filepath.Join(dir, "nested", "c.hcl.json"))
	writeFile(t, filepath.Join(dir, "nested", "ignored.txt"))

	files, err := FindFiles([]string{dir}, ".hcl", ".hcl.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl.json"),
	}, files)
}

func TestFindFiles_SingleFileAndDedup(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.hcl")
	writeFile(t, file)

	files, err := FindFiles([]string{file, dir, file}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestFindFiles_MissingPathIsSkipped(t *testing.T) {
	files, err := FindFiles([]string{filepath.Join(t.TempDir(), "nope")}, ".hcl")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFiles_NoExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFiles([]string{"."}) })
}
