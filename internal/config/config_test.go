package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobhunter/internal/memory"
)

var envKeys = []string{
	"APP_ENV", "GROQ_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATA_DIR", "PORT",
	"SEARCH_INTERVAL_MINUTES", "AUTO_SEARCH_ENABLED", "DATABASE_URL", "REDIS_URL", "MEMORY_BACKEND",
	"PROFILE_NAME", "PROFILE_EMAIL", "PROFILE_GITHUB", "PROFILE_COUNTRY",
}

// clearEnv blanks every variable the loader reads; an empty value counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "Tunisia", cfg.Profile.Country)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, memory.BackendJSON, cfg.Memory.Backend)
	assert.Equal(t, 10, cfg.Schedule.IntervalMinutes)
	assert.True(t, cfg.Schedule.AutoSearch())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 150, cfg.Preferences.ScoreDivisor)
	assert.False(t, cfg.Telegram.Configured())
}

func TestLoadFrom_YAMLAndPartialPreferences(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
profile:
  full_name: Test User
  country: Morocco
preferences:
  min_display_score: 25
  remote_terms: [remote, anywhere]
sources:
  disabled: [Research]
schedule:
  interval_minutes: 30
  enabled: false
memory:
  backend: SQLite
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "Test User", cfg.Profile.FullName)
	assert.Equal(t, "Morocco", cfg.Profile.Country)
	assert.Equal(t, "Monastir", cfg.Profile.City)
	assert.Equal(t, 25, cfg.Preferences.MinDisplayScore)
	assert.Equal(t, []string{"remote", "anywhere"}, cfg.Preferences.RemoteTerms)
	assert.NotEmpty(t, cfg.Preferences.EmotionKeywords)
	assert.Equal(t, 5, cfg.Preferences.Weights.EmotionKeywordMatch)
	assert.False(t, cfg.Sources.Enabled("research"))
	assert.True(t, cfg.Sources.Enabled("linkedin"))
	assert.Equal(t, 30, cfg.Schedule.IntervalMinutes)
	assert.False(t, cfg.Schedule.AutoSearch())
	assert.Equal(t, memory.BackendSQLite, cfg.Memory.Backend)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-10042")
	t.Setenv("DATA_DIR", "/tmp/jobs")
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_INTERVAL_MINUTES", "5")
	t.Setenv("AUTO_SEARCH_ENABLED", "false")
	t.Setenv("PROFILE_NAME", "Env Name")
	t.Setenv("PROFILE_GITHUB", "github.com/env")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadFrom(writeConfig(t, "profile:\n  full_name: Yaml Name\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Telegram.Configured())
	assert.Equal(t, int64(-10042), cfg.Telegram.ChatID)
	assert.Equal(t, "/tmp/jobs", cfg.Paths.DataDir)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Schedule.IntervalMinutes)
	assert.False(t, cfg.Schedule.AutoSearch())
	assert.Equal(t, "Env Name", cfg.Profile.FullName)
	assert.Equal(t, "github.com/env", cfg.Profile.Portfolio)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{"bad yaml", nil, "profile: [\n"},
		{"bad chat id", map[string]string{"TELEGRAM_CHAT_ID": "abc"}, ""},
		{"bad interval", map[string]string{"SEARCH_INTERVAL_MINUTES": "ten"}, ""},
		{"bad auto search", map[string]string{"AUTO_SEARCH_ENABLED": "maybe"}, ""},
		{"unknown backend", map[string]string{"MEMORY_BACKEND": "mongo"}, ""},
		{"postgres without url", map[string]string{"MEMORY_BACKEND": "postgres"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_ProductionNeedsAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := LoadFrom(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	t.Setenv("GROQ_API_KEY", "gsk_test")
	cfg, err := LoadFrom(writeConfig(t, ""))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
