// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthConfig holds identity provider and local sign-in configuration.
type AuthConfig struct {
	// OIDC configuration
	IssuerURL    string `yaml:"issuer_url"`    // OIDC issuer URL for discovery
	ClientID     string `yaml:"client_id"`     // OAuth client id
	ClientSecret string `yaml:"client_secret"` // OAuth client secret
	RedirectURL  string `yaml:"redirect_url"`  // callback URL registered with the provider

	// Local development sign-in
	DevTokenSecret string        `yaml:"dev_token_secret"` // HS256 secret; empty disables dev sign-in
	DevTokenTTL    time.Duration `yaml:"dev_token_ttl"`    // dev token lifetime (default: 1h)
}

// OIDCEnabled returns true when an external identity provider is configured.
func (a *AuthConfig) OIDCEnabled() bool {
	return a.IssuerURL != "" && a.ClientID != ""
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.IssuerURL != "" && a.ClientID == "" {
		return fmt.Errorf("AUTH_CLIENT_ID is required when AUTH_ISSUER_URL is set")
	}
	if a.OIDCEnabled() && a.RedirectURL == "" {
		return fmt.Errorf("AUTH_REDIRECT_URL is required when OIDC is configured")
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"` // HTTP listen address (default ":8080")
	MetaDBPath string `yaml:"meta_db_path"`
	LogLevel   string `yaml:"log_level"` // debug, info, warn, error (default "info")
	Env        string `yaml:"env"`       // "development" (default) or "production"

	// BigQuery
	ProjectID string `yaml:"project_id"` // GCP project billed for queries

	// Rate limiting
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	// CORS
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// History retention
	HistoryRetentionDays int    `yaml:"history_retention_days"` // 0 disables the sweeper
	HistorySweepSchedule string `yaml:"history_sweep_schedule"` // cron expression (default "@hourly")

	Auth AuthConfig `yaml:"auth"`

	// Warnings collects non-fatal warnings generated during loading. They
	// are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load builds the configuration: an optional YAML file first, then
// environment variables on top, then defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath) //nolint:gosec // path is caller-controlled
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("config file %s not found — using environment only", configPath))
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.MetaDBPath, "META_DB_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Env, "ENV")
	setString(&c.ProjectID, "PROJECT_ID")
	setString(&c.HistorySweepSchedule, "HISTORY_SWEEP_SCHEDULE")

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitBurst = n
		}
	}
	if v := os.Getenv("HISTORY_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HistoryRetentionDays = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	setString(&c.Auth.IssuerURL, "AUTH_ISSUER_URL")
	setString(&c.Auth.ClientID, "AUTH_CLIENT_ID")
	setString(&c.Auth.ClientSecret, "AUTH_CLIENT_SECRET")
	setString(&c.Auth.RedirectURL, "AUTH_REDIRECT_URL")
	setString(&c.Auth.DevTokenSecret, "DEV_TOKEN_SECRET")
	if v := os.Getenv("DEV_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.DevTokenTTL = d
		}
	}
}

func (c *Config) applyDefaults() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.MetaDBPath == "" {
		c.MetaDBPath = "smolquery_meta.sqlite"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RateLimitRPS == 0 {
		c.RateLimitRPS = 100
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = 200
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
	if c.HistorySweepSchedule == "" {
		c.HistorySweepSchedule = "@hourly"
	}
	if c.Auth.DevTokenTTL == 0 {
		c.Auth.DevTokenTTL = time.Hour
	}

	if err := c.Auth.Validate(); err != nil {
		return err
	}

	if !c.Auth.OIDCEnabled() {
		c.Warnings = append(c.Warnings, "OIDC is not configured — browser sign-in limited to dev tokens")
	}
	if c.ProjectID == "" {
		c.Warnings = append(c.Warnings, "PROJECT_ID not set — authenticated queries will fail, mock execution unaffected")
	}

	// Production mode: insecure defaults are fatal errors.
	if c.IsProduction() {
		if !c.Auth.OIDCEnabled() {
			return fmt.Errorf("OIDC must be configured in production (set AUTH_ISSUER_URL and AUTH_CLIENT_ID)")
		}
		if c.Auth.DevTokenSecret != "" {
			return fmt.Errorf("DEV_TOKEN_SECRET must not be set in production (ENV=production)")
		}
		if len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == "*" {
			return fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
