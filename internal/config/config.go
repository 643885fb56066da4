// Package config loads Wellbot configuration from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for Wellbot.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	KB            KBConfig            `yaml:"kb"`
	Profiles      ProfilesConfig      `yaml:"profiles"`
	Session       SessionConfig       `yaml:"session"`
	NLU           NLUConfig           `yaml:"nlu"`
	Detection     DetectionConfig     `yaml:"detection"`
	Admin         AdminConfig         `yaml:"admin"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	CORSOrigins      []string      `yaml:"cors_origins"`
}

// KBConfig locates the knowledge-base directory.
type KBConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// ProfilesConfig points at the user database holding language preferences.
// An empty path disables preference lookups.
type ProfilesConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects where session languages are kept.
type SessionConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// NLUConfig configures the Rasa classifier. An empty URL disables it.
type NLUConfig struct {
	URL                 string        `yaml:"url"`
	Token               string        `yaml:"token"`
	Timeout             time.Duration `yaml:"timeout"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
}

// DetectionConfig toggles text language detection.
type DetectionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AdminConfig protects the knowledge-base edit routes.
type AdminConfig struct {
	Token string `yaml:"token"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file, loads .env from the working
// directory, and applies environment overrides. An empty path uses defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			CORSOrigins:      []string{"*"},
		},
		KB: KBConfig{
			Dir:   "./kb",
			Watch: true,
		},
		Profiles: ProfilesConfig{
			Timeout: 2 * time.Second,
		},
		Session: SessionConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Prefix:   "wellbot:session:",
			},
		},
		NLU: NLUConfig{
			URL:     "http://localhost:5005",
			Timeout: 5 * time.Second,
		},
		Detection: DetectionConfig{
			Enabled: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "wellbot",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.KB.Dir) == "" {
		return errors.New("kb.dir is required")
	}

	if c.Session.Driver != "memory" && c.Session.Driver != "redis" {
		return fmt.Errorf("invalid session driver: %s", c.Session.Driver)
	}

	if c.Session.Driver == "redis" && c.Session.Redis.Addr == "" {
		return errors.New("session.redis.addr is required for the redis driver")
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("session ttl must not be negative: %s", c.Session.TTL)
	}

	if c.NLU.ConfidenceThreshold < 0 || c.NLU.ConfidenceThreshold > 1 {
		return fmt.Errorf("nlu confidence_threshold must be between 0 and 1: %g", c.NLU.ConfidenceThreshold)
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WELLBOT_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("WELLBOT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WELLBOT_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("WELLBOT_KB_DIR"); v != "" {
		cfg.KB.Dir = v
	}

	if v := os.Getenv("WELLBOT_KB_WATCH"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WELLBOT_KB_WATCH: %w", err)
		}
		cfg.KB.Watch = watch
	}

	if v := os.Getenv("WELLBOT_PROFILE_DB"); v != "" {
		cfg.Profiles.Path = v
	}

	if v := os.Getenv("WELLBOT_SESSION_DRIVER"); v != "" {
		cfg.Session.Driver = v
	}

	if v := os.Getenv("WELLBOT_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WELLBOT_SESSION_TTL: %w", err)
		}
		cfg.Session.TTL = ttl
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.Driver = "redis"
		cfg.Session.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Session.Redis.Password = v
	}

	if v, ok := os.LookupEnv("WELLBOT_NLU_URL"); ok {
		cfg.NLU.URL = v
	}

	if v := os.Getenv("WELLBOT_NLU_TOKEN"); v != "" {
		cfg.NLU.Token = v
	}

	if v := os.Getenv("WELLBOT_NLU_CONFIDENCE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("WELLBOT_NLU_CONFIDENCE_THRESHOLD: %w", err)
		}
		cfg.NLU.ConfidenceThreshold = threshold
	}

	if v := os.Getenv("WELLBOT_ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}
