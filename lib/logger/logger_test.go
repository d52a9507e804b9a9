package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "smj.log")
		log, err := New(Config{Level: "debug", Format: "json", OutputFile: path})
		require.NoError(t, err)

		log.Debug("page evicted")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "page evicted", entry["msg"])
		assert.Equal(t, serviceName, entry["service"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "smj.log")
		log, err := New(Config{Level: "loud", Format: "console", OutputFile: path})
		require.NoError(t, err)

		log.Debug("hidden")
		log.Info("shown")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "shown")
		assert.Contains(t, string(data), "INFO")
	})

	t.Run("unopenable file", func(t *testing.T) {
		_, err := New(Config{OutputFile: filepath.Join(t.TempDir(), "missing", "smj.log")})
		assert.Error(t, err)
	})
}
