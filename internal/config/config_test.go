package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	return writeConfigAs(t, "seoaudit.yaml", body)
}

func writeConfigAs(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
projects_dir: ./projects
log_level: debug
redact: false
redis:
  url: redis://cache:6379/1
  ttl: 2h
llm:
  model: claude-sonnet-4-20250514
  max_tokens: 2048
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "./projects", cfg.ProjectsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Redact)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	// untouched fields keep their defaults
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfigAs(t, "seoaudit.toml", `
addr = ":9191"
log_level = "error"

[redis]
url = "redis://toml:6379"
ttl = "30m"

[llm]
model = "gpt-4o"
temperature = 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.Addr)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "redis://toml:6379", cfg.Redis.URL)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 0.5, cfg.LLM.Temperature)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.True(t, cfg.Redact)

	_, err = Load(writeConfigAs(t, "bad.toml", "addr = "))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "addr: \":9090\"\nlog_level: debug\n")
	t.Setenv("SEOAUDIT_ADDR", ":7070")
	t.Setenv("SEOAUDIT_REDIS_URL", "redis://env:6379")
	t.Setenv("SEOAUDIT_PROJECTS_DIR", "/srv/projects")
	t.Setenv("SEOAUDIT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "redis://env:6379", cfg.Redis.URL)
	assert.Equal(t, "/srv/projects", cfg.ProjectsDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "addr: [", "seoaudit.yaml"},
		{"bad level", "log_level: loud", "unknown level"},
		{"bad temperature", "llm:\n  temperature: 3\n", "llm.temperature"},
		{"empty addr", "addr: \"\"\n", "addr: required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Addr = ""
	cfg.LogLevel = "loud"
	cfg.LLM.MaxTokens = -1

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"addr: required", "unknown level", "llm.max_tokens"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
