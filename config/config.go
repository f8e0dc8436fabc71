package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// OIDCOptions holds the identity provider settings
type OIDCOptions struct {
	Domain       string `env:"OIDC_DOMAIN"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	CallbackURL  string `env:"OIDC_CALLBACK_URL"`
}

// Config is the application configuration, read from the environment
type Config struct {
	OIDC OIDCOptions

	Port          int    `env:"PORT" envDefault:"8080"`
	BaseDomain    string `env:"BASE_DOMAIN" envDefault:"localhost"`
	DevPort       int    `env:"DEV_PORT" envDefault:"0"`
	UseHTTPS      bool   `env:"USE_HTTPS" envDefault:"false"`
	CookieDomain  string `env:"COOKIE_DOMAIN"`
	SessionMaxAge int64  `env:"SESSION_MAX_AGE" envDefault:"3600"`

	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	PublicDBName string `env:"PUBLIC_DB_NAME" envDefault:"public.db"`

	StaffEmails []string `env:"STAFF_EMAILS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads the given .env files (missing ones are skipped) and parses the environment
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags alone cannot express
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.BaseDomain) == "" {
		return fmt.Errorf("BASE_DOMAIN is required")
	}
	if strings.Contains(c.BaseDomain, ":") {
		return fmt.Errorf("BASE_DOMAIN must be a bare host without port, got %q", c.BaseDomain)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	return nil
}

// LogrusLevel maps LOG_LEVEL onto a logrus level, defaulting to info
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Scheme is the URL scheme used for redirects between hosts
func (c *Config) Scheme() string {
	if c.UseHTTPS {
		return "https"
	}
	return "http"
}

// IsStaffEmail reports whether the address is listed in STAFF_EMAILS
func (c *Config) IsStaffEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, staff := range c.StaffEmails {
		if strings.EqualFold(strings.TrimSpace(staff), email) {
			return true
		}
	}
	return false
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
