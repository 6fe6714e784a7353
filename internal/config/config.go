// Package config loads the site configuration: defaults, then an optional
// YAML file, then PORTFOLIO_* environment overrides, then the plain
// variables the site has always read (PORT, SMTP_*, TO_EMAIL, ADMIN_*).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/binilvincent/portfolio/internal/effects"
)

const envPrefix = "PORTFOLIO_"

type Config struct {
	Debug bool `koanf:"debug"`
	// KnowledgePath points at a knowledge base YAML file. Empty means the
	// built-in one.
	KnowledgePath string `koanf:"knowledge_path"`

	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Chat     ChatConfig     `koanf:"chat"`
	Admin    AdminConfig    `koanf:"admin"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Privacy  PrivacyConfig  `koanf:"privacy"`
	Effects  effects.Config `koanf:"effects"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode            string        `koanf:"mode"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// StaticDir and ImagesDir are served under /static and /images.
	StaticDir string `koanf:"static_dir"`
	ImagesDir string `koanf:"images_dir"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type ChatConfig struct {
	MinDelay time.Duration `koanf:"min_delay"`
	MaxDelay time.Duration `koanf:"max_delay"`
	// SessionIdle is how long a quiet session is kept before it is pruned.
	SessionIdle time.Duration `koanf:"session_idle"`
}

type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// PasswordHash is a bcrypt hash and wins over Password when set.
	PasswordHash string        `koanf:"password_hash"`
	Secret       string        `koanf:"secret"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

type PrivacyConfig struct {
	// Retention is how long visitor records are kept.
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	// Salt for IP hashing. Empty means a random salt per process.
	Salt string `koanf:"salt"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
			StaticDir:       "static",
			ImagesDir:       "images",
		},
		Database: DatabaseConfig{Path: "data/portfolio.db"},
		Chat: ChatConfig{
			MinDelay:    time.Second,
			MaxDelay:    2 * time.Second,
			SessionIdle: 30 * time.Minute,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
			TokenTTL: 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Privacy: PrivacyConfig{
			Retention:       365 * 24 * time.Hour,
			CleanupInterval: 24 * time.Hour,
		},
		Effects: effects.DefaultConfig(),
	}
}

// Load reads configuration from path if it exists, then overlays the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// PORTFOLIO_CHAT__MIN_DELAY -> chat.min_delay
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.applyLegacyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyLegacyEnv() error {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Port, "PORT")
	set(&c.SMTP.Host, "SMTP_HOST")
	set(&c.SMTP.Port, "SMTP_PORT")
	set(&c.SMTP.User, "SMTP_USER")
	set(&c.SMTP.Pass, "SMTP_PASS")
	set(&c.SMTP.To, "TO_EMAIL")
	set(&c.Admin.Username, "ADMIN_USERNAME")
	set(&c.Admin.Password, "ADMIN_PASSWORD")
	set(&c.Server.Mode, "GIN_MODE")

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}
	return nil
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server.port %q", c.Server.Port)
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Chat.MinDelay < 0 || c.Chat.MaxDelay < c.Chat.MinDelay {
		return fmt.Errorf("chat delays must satisfy 0 <= min_delay <= max_delay")
	}
	if c.Chat.SessionIdle <= 0 {
		return fmt.Errorf("chat.session_idle must be positive")
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("admin.username is required")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin.password or admin.password_hash is required")
	}
	if c.Admin.TokenTTL <= 0 {
		return fmt.Errorf("admin.token_ttl must be positive")
	}
	if c.Privacy.Retention <= 0 || c.Privacy.CleanupInterval <= 0 {
		return fmt.Errorf("privacy.retention and privacy.cleanup_interval must be positive")
	}
	if err := c.Effects.Validate(); err != nil {
		return fmt.Errorf("effects: %w", err)
	}
	return nil
}

// UsesDefaultAdmin reports whether the shipped admin credentials are still
// in place.
func (c *Config) UsesDefaultAdmin() bool {
	return c.Admin.PasswordHash == "" && c.Admin.Password == DefaultConfig().Admin.Password
}
