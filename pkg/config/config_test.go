package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromEnv(t *testing.T) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadFromEnv(t)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, "ja", cfg.Dify.PromptLang)
	assert.False(t, cfg.App.DebugDiagnostics)
	assert.False(t, cfg.OAuth.Google.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DEBUG_DIAGNOSTICS", "true")
	t.Setenv("DIFY_PROMPT_LANG", "en")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg := loadFromEnv(t)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.App.DebugDiagnostics)
	assert.Equal(t, "en", cfg.Dify.PromptLang)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.OAuth.Google.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad timezone", mutate: func(c *Config) { c.App.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "bad prompt language", mutate: func(c *Config) { c.Dify.PromptLang = "fr" }, wantErr: true},
		{name: "zero rate", mutate: func(c *Config) { c.App.AnalyzeRateLimit = 0 }, wantErr: true},
		{
			name:    "production with default secrets",
			mutate:  func(c *Config) { c.Server.Environment = "production"; c.Dify.APIKey = "k" },
			wantErr: true,
		},
		{
			name: "production configured",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.JWT.AccessSecret = "a"
				c.JWT.RefreshSecret = "b"
				c.Dify.APIKey = "k"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadFromEnv(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadFromEnv(t)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=meeting_notes sslmode=disable",
		cfg.GetDatabaseDSN())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}
