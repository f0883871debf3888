// Package config loads server settings from YAML or TOML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the seoaudit server configuration.
type Config struct {
	Addr        string `yaml:"addr" toml:"addr"`
	ProjectsDir string `yaml:"projects_dir" toml:"projects_dir"`
	CatalogDir  string `yaml:"catalog_dir" toml:"catalog_dir"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	Redact      bool   `yaml:"redact" toml:"redact"`
	Redis       Redis  `yaml:"redis" toml:"redis"`
	LLM         LLM    `yaml:"llm" toml:"llm"`
}

// Redis configures the latest-audit cache. An empty URL selects the
// in-memory store.
type Redis struct {
	URL string        `yaml:"url" toml:"url"`
	TTL time.Duration `yaml:"ttl" toml:"ttl"`
}

// LLM configures fix drafting.
type LLM struct {
	Model       string  `yaml:"model" toml:"model"`
	Temperature float64 `yaml:"temperature" toml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" toml:"max_tokens"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Redact:   true,
		Redis:    Redis{TTL: 24 * time.Hour},
		LLM:      LLM{Temperature: 0.2, MaxTokens: 4096},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides. Files ending in .toml are parsed as TOML,
// anything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SEOAUDIT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("SEOAUDIT_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := getenv("SEOAUDIT_PROJECTS_DIR"); v != "" {
		c.ProjectsDir = v
	}
	if v := getenv("SEOAUDIT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate reports every invalid setting, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr: required"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl: must not be negative"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature: %v out of range 0..2", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, errors.New("llm.max_tokens: must not be negative"))
	}
	return errors.Join(errs...)
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level: unknown level %q", s)
}
