package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	ListenAddr     string  `env:"LISTEN_ADDR" default:"0.0.0.0:5000"`
	Debug          bool    `env:"DEBUG" default:"true"`
	SecretKey      string  `env:"SECRET_KEY"`
	TemplateDir    string  `env:"TEMPLATE_DIR" default:"templates"`
	StaticDir      string  `env:"STATIC_DIR" default:"static"`
	CookieSecure   bool    `env:"COOKIE_SECURE" default:"false"`
	TrustProxy     bool    `env:"TRUST_PROXY" default:"false"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"200"`
	LogLevel       string  `env:"LOG_LEVEL"`
	LogFormat      string  `env:"LOG_FORMAT" default:"text"`
}

func Default() Config {
	return Config{
		ListenAddr:     "0.0.0.0:5000",
		Debug:          true,
		TemplateDir:    "templates",
		StaticDir:      "static",
		CookieSecure:   false,
		RateLimitRPS:   100,
		RateLimitBurst: 200,
		LogFormat:      "text",
	}
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.Debug {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	if cfg.TemplateDir == "" || cfg.StaticDir == "" {
		return errors.New("TEMPLATE_DIR and STATIC_DIR must not be empty")
	}
	// Outside debug mode the session secret has to come from the environment.
	if cfg.SecretKey == "" && !cfg.Debug {
		return errors.New("SECRET_KEY is required when DEBUG is disabled")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps / burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return nil
}

// PrepareDirs creates the template and static directories if they are
// missing. It is safe to call repeatedly.
func (c *Config) PrepareDirs() error {
	for _, dir := range []string{c.TemplateDir, c.StaticDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		slog.Debug("directory ready", "path", dir)
	}
	return nil
}
