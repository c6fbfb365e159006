package collision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.CellSize)
	assert.Equal(t, 1024, cfg.NumCells)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "cell_size: 0.5\nworkers: 4\ncontact_distance: 0.1\n")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.CellSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.1, cfg.ContactDistance)
	assert.Equal(t, 1024, cfg.NumCells, "missing keys keep their default")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "cell_sise: 0.5\n"},
		{"zero workers", "workers: 0\n"},
		{"negative cell size", "cell_size: -1\n"},
		{"negative contact distance", "contact_distance: -0.1\n"},
		{"bad log level", "log_level: loud\n"},
		{"not yaml", "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
