package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/shopfront/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CatalogMode        string
	CatalogBaseURL     string
	CatalogCacheTTL    time.Duration
	RedisURL           string
	DiscountPercent    decimal.Decimal
	TaxRate            decimal.Decimal
	CartSessionTTL     time.Duration
	CORSAllowedOrigins []string
	CookieSecure       bool
	RateLimitMax       int
	RateLimitWindow    time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CatalogMode:        strings.ToLower(valueOrDefault(k.String("CATALOG_MODE"), "fixture")),
		CatalogBaseURL:     strings.TrimSpace(k.String("CATALOG_BASE_URL")),
		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CartSessionTTL:     parseDuration(k.String("CART_SESSION_TTL"), "24h"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CookieSecure:       parseBool(k.String("COOKIE_SECURE")),
		RateLimitMax:       int(k.Int64("RATE_LIMIT_MAX")),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
	}

	discount, err := parseDecimal(k.String("CART_DISCOUNT_PERCENT"), "0")
	if err != nil {
		return nil, fmt.Errorf("CART_DISCOUNT_PERCENT: %w", err)
	}
	cfg.DiscountPercent = discount

	taxRate, err := parseDecimal(k.String("TAX_RATE"), pricing.DefaultTaxRate.String())
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	cfg.TaxRate = taxRate

	switch cfg.CatalogMode {
	case "fixture":
	case "http":
		if cfg.CatalogBaseURL == "" {
			return nil, errors.New("CATALOG_BASE_URL is required when CATALOG_MODE=http")
		}
	default:
		return nil, fmt.Errorf("unsupported CATALOG_MODE: %s", cfg.CatalogMode)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseDecimal(value, fallback string) (decimal.Decimal, error) {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	return decimal.NewFromString(base)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
