package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the plain variables so the host environment does not leak
// into the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"TO_EMAIL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "GIN_MODE", "DEBUG"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Chat.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.Chat.MaxDelay)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.True(t, cfg.UsesDefaultAdmin())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
debug: true
server:
  port: "9000"
chat:
  min_delay: 100ms
  max_delay: 300ms
effects:
  bubbles:
    max: 5
  comets:
    spawn_chance: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.Chat.MinDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Chat.MaxDelay)
	assert.Equal(t, 5, cfg.Effects.Bubbles.Max)
	assert.Equal(t, 0.5, cfg.Effects.Comets.SpawnChance)
	// untouched keys keep their defaults
	assert.Equal(t, 8, cfg.Effects.Bubbles.Initial)
	assert.Equal(t, "data/portfolio.db", cfg.Database.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: \"9000\"\n")
	t.Setenv("PORTFOLIO_SERVER__PORT", "9100")
	t.Setenv("PORTFOLIO_EFFECTS__SHOOTING_STARS__INITIAL", "2")
	t.Setenv("PORTFOLIO_ADMIN__USERNAME", "binil")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Effects.ShootingStars.Initial)
	assert.Equal(t, "binil", cfg.Admin.Username)
}

func TestLoad_PlainEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORTFOLIO_SERVER__PORT", "9100")
	t.Setenv("PORT", "3000")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "me@example.com", cfg.SMTP.User)
	assert.Equal(t, "secret", cfg.SMTP.Pass)
	assert.Equal(t, "inbox@example.com", cfg.SMTP.To)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.False(t, cfg.UsesDefaultAdmin())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("DEBUG", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "DEBUG")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"port not a number", func(c *Config) { c.Server.Port = "http" }},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"db path", func(c *Config) { c.Database.Path = "" }},
		{"delay order", func(c *Config) { c.Chat.MaxDelay = c.Chat.MinDelay - 1 }},
		{"idle", func(c *Config) { c.Chat.SessionIdle = 0 }},
		{"admin user", func(c *Config) { c.Admin.Username = "" }},
		{"admin password", func(c *Config) { c.Admin.Password = "" }},
		{"token ttl", func(c *Config) { c.Admin.TokenTTL = 0 }},
		{"retention", func(c *Config) { c.Privacy.Retention = 0 }},
		{"effects", func(c *Config) { c.Effects.Bubbles.Interval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
