package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "excel", cfg.Workbook.Kind)
	assert.Equal(t, 7, cfg.Analytics.SmoothingWindowDays)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\nlogging:\n  level: warn\n"), 0o644))

	t.Setenv("SOCIALLENS_LOGGING_LEVEL", "debug")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port, "file value kept when env unset")
	assert.Equal(t, "debug", cfg.Logging.Level, "env wins over file")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad log level", env: map[string]string{"SOCIALLENS_LOGGING_LEVEL": "verbose"}},
		{name: "bad workbook kind", env: map[string]string{"SOCIALLENS_WORKBOOK_KIND": "csv"}},
		{name: "sheets without api key", env: map[string]string{"SOCIALLENS_WORKBOOK_KIND": "sheets"}},
		{name: "zero smoothing window", env: map[string]string{"SOCIALLENS_ANALYTICS_SMOOTHING_WINDOW_DAYS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromFile("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}
