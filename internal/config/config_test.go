package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks.cue")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "hooks", cfg.AppName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Nil(t, cfg.Money)
	assert.Empty(t, cfg.StorePath)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvVar, "")

	path := writeConfig(t, `
app_name: "sync-script"
environment: "production"
logging: {
	level: "debug"
	format: "json"
}
money: fixed: 100
store: path: "runs.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sync-script", cfg.AppName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	require.NotNil(t, cfg.Money)
	assert.Equal(t, int64(100), cfg.Money.Fixed)
	assert.Equal(t, "runs.db", cfg.StorePath)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load(writeConfig(t, `logging: level: "warn"`))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "hooks", cfg.AppName)
}

func TestLoad_ZeroMoneyIsConfigured(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load(writeConfig(t, `money: fixed: 0`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Money)
	assert.Equal(t, int64(0), cfg.Money.Fixed)
}

func TestLoad_Rejects(t *testing.T) {
	t.Setenv(EnvVar, "")

	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `colour: "blue"`},
		{"bad environment", `environment: "staging"`},
		{"bad level", `logging: level: "trace"`},
		{"float money", `money: fixed: 1.5`},
		{"empty store path", `store: path: ""`},
		{"syntax error", `app_name: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)

			var cfgErr *Error
			assert.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "read config")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvVar, "test")

	cfg, err := Load(writeConfig(t, `environment: "production"`))
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
}

func TestLoad_EnvOverrideValidated(t *testing.T) {
	t.Setenv(EnvVar, "staging")

	_, err := Default()
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "environment", cfgErr.Path)
}

func TestLogging_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Logging{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Logging{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Logging{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Logging{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Logging{}.SlogLevel())
}

func TestError_Format(t *testing.T) {
	assert.Equal(t, "logging.level: bad", (&Error{Path: "logging.level", Message: "bad"}).Error())
	assert.Equal(t, "bad", (&Error{Message: "bad"}).Error())
}
