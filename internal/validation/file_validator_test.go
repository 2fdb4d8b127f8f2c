package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("existing directory", func(t *testing.T) {
		assert.NoError(t, v.ValidateInputDirectory(t.TempDir(), ""))
	})

	t.Run("missing directory", func(t *testing.T) {
		err := v.ValidateInputDirectory(filepath.Join(t.TempDir(), "missing"), "")
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		assert.Error(t, v.ValidateInputDirectory(path, ""))
	})

	t.Run("pattern with no matches is not an error", func(t *testing.T) {
		assert.NoError(t, v.ValidateInputDirectory(t.TempDir(), "*.csv"))
	})

	t.Run("pattern with matches", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0644))
		assert.NoError(t, v.ValidateInputDirectory(dir, "*.csv"))
	})
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		require.NoError(t, v.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("cleans up write test file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, v.ValidateOutputDirectory(dir))

		_, err := os.Stat(filepath.Join(dir, ".write_test"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestValidateFile(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))
		assert.NoError(t, v.ValidateFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, v.ValidateFile(filepath.Join(t.TempDir(), "missing.csv")))
	})

	t.Run("directory", func(t *testing.T) {
		assert.Error(t, v.ValidateFile(t.TempDir()))
	})
}
