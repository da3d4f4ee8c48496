package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockpile/internal/config"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "stockpile.log")
	log, cleanup, err := New(config.LogConfig{Path: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("product added")
	require.NoError(t, cleanup())

	entries := readLines(t, path)
	require.Len(t, entries, 1)
	require.Equal(t, "product added", entries[0]["msg"])
	require.Equal(t, "stockpile", entries[0]["logger"])
	require.NotContains(t, entries[0], "caller")
}

func TestNewDebugAddsCaller(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stockpile.log")
	log, cleanup, err := New(config.LogConfig{Path: path, Debug: true})
	require.NoError(t, err)

	log.Debug("navigating")
	require.NoError(t, cleanup())

	entries := readLines(t, path)
	require.Len(t, entries, 1)
	require.Equal(t, "debug", entries[0]["level"])
	require.Contains(t, entries[0], "caller")
}

func TestNewEmptyPathIsNop(t *testing.T) {
	t.Parallel()

	log, cleanup, err := New(config.LogConfig{})
	require.NoError(t, err)
	log.Info("dropped")
	require.NoError(t, cleanup())
}
