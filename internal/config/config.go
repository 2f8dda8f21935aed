package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RefreshLeeway is how close to expiry an access token may get before the
	// client refreshes it proactively instead of waiting for a 401.
	RefreshLeeway time.Duration `yaml:"refresh_leeway"`
}

type AuthConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	// InitTimeout bounds startup session validation; a hung backend must not
	// leave the console stuck in "loading".
	InitTimeout time.Duration `yaml:"init_timeout"`
}

type PollingConfig struct {
	InitialInterval   time.Duration `yaml:"initial_interval"`
	MaxInterval       time.Duration `yaml:"max_interval"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	MaxAttempts       int           `yaml:"max_attempts"`
	TotalTimeout      time.Duration `yaml:"total_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // 0 disables the admin/debug server
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the redis flow-state store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Polling PollingConfig `yaml:"polling"`
	Log     LogConfig     `yaml:"log"`
	Admin   AdminConfig   `yaml:"admin"`
	Redis   RedisConfig   `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	// .env next to the config file may override the environment; ignore if absent.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("MCP_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("MCP_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	// defaults
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.API.RefreshLeeway <= 0 {
		cfg.API.RefreshLeeway = 30 * time.Second
	}
	if cfg.Auth.CredentialsFile == "" {
		cfg.Auth.CredentialsFile = defaultCredentialsFile()
	}
	if cfg.Auth.InitTimeout <= 0 {
		cfg.Auth.InitTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Polling = normalizePolling(cfg.Polling)
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizePolling(p PollingConfig) PollingConfig {
	if p.InitialInterval <= 0 {
		p.InitialInterval = 2 * time.Second
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = 30 * time.Second
	}
	if p.BackoffMultiplier <= 1 {
		p.BackoffMultiplier = 1.5
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 20
	}
	if p.TotalTimeout <= 0 {
		p.TotalTimeout = 5 * time.Minute
	}
	return p
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mcp", "credentials.json")
}
