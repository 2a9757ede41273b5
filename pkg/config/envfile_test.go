package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("LEDGER_TIMEZONE=UTC\n"), 0o600))
}

func TestFindEnvFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "service")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeEnv(t, filepath.Join(root, ".env"))
	writeEnv(t, filepath.Join(root, "pkg", "ledger.env"))

	t.Run("walks up to the repo root", func(t *testing.T) {
		got, err := findEnvFile(nested, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ".env"), got)
	})

	t.Run("nearest match wins", func(t *testing.T) {
		writeEnv(t, filepath.Join(root, "ledger.env"))
		got, err := findEnvFile(nested, "ledger.env")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "pkg", "ledger.env"), got)
	})

	t.Run("directories are not env files", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(nested, "config.env"), 0o755))
		_, err := findEnvFile(nested, "config.env")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("absolute path is not searched", func(t *testing.T) {
		got, err := findEnvFile(nested, filepath.Join(root, ".env"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ".env"), got)

		_, err = findEnvFile(nested, filepath.Join(nested, ".env"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
