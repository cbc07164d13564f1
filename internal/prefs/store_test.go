package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	assert.Empty(t, s.WorkerBase())
	assert.Equal(t, "https://cfg.example", s.Resolve("https://cfg.example"))
}

func TestSetWorkerBasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prefs.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetWorkerBase("  https://relay.example.workers.dev/ "))
	assert.Equal(t, "https://relay.example.workers.dev", s.WorkerBase())
	assert.False(t, s.Get().UpdatedAt.IsZero())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "https://relay.example.workers.dev", reopened.WorkerBase())
	assert.Equal(t, "https://relay.example.workers.dev", reopened.Resolve("https://cfg.example"))

	require.NoError(t, reopened.SetWorkerBase(""))
	assert.Equal(t, "https://cfg.example", reopened.Resolve("https://cfg.example"))
}

func TestSetWorkerBaseRejectsNonHTTP(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)
	for _, bad := range []string{"ftp://x", "relay.example", "https://"} {
		assert.Error(t, s.SetWorkerBase(bad), bad)
	}
	assert.Empty(t, s.WorkerBase())
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadState(path)
	assert.Error(t, err)
}
