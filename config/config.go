package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Voting        VotingConfig        `yaml:"voting"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// JWTConfig holds JWT configuration for judge/admin tokens.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// VotingConfig holds public-voting configuration.
type VotingConfig struct {
	// SessionRatePerMinute caps vote submissions per voter session.
	// Unset defaults to 6; a negative value disables limiting.
	SessionRatePerMinute int `yaml:"session_rate_per_minute"`
	// SessionBurst is the rate limiter burst per voter session.
	SessionBurst int `yaml:"session_burst"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads configuration from a YAML file, falling back to
// environment variables, with env vars overriding file values when present.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (config file or DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL is required (config file or NATS_URL)")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.JWT.DefaultTTL == 0 {
		cfg.JWT.DefaultTTL = 12 * time.Hour
	}
	if cfg.Voting.SessionRatePerMinute == 0 {
		cfg.Voting.SessionRatePerMinute = 6
	}
	if cfg.Voting.SessionBurst == 0 {
		cfg.Voting.SessionBurst = 3
	}
	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":9090"
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
}
