package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/dessert-shop/internal/pricing"
)

// DefaultPromoCodes is the promo table applied when PROMO_CODES is unset.
// Percent amounts are basis points, fixed amounts are minor currency units.
const DefaultPromoCodes = "SWEET20:percent:2000,FIRSTORDER:fixed:3000,DISCOUNT10:percent:1000"

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	LogFormat          string
	LogLevel           string
	RedisURL           string
	CORSAllowedOrigins []string
	CurrencyCode       string
	CartTTL            time.Duration
	OrderTTL           time.Duration
	IdempotencyTTL     time.Duration
	Rates              pricing.Rates
	PromoCodes         string
	OrderConfirmDelay  time.Duration
	QueueConcurrency   int
	RateLimit          string
	MetricsBucketsCSV  string
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
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:       valueOrDefault(k.String("CURRENCY_CODE"), "RUB"),
		CartTTL:            parseDuration(k.String("CART_TTL"), "168h"),
		OrderTTL:           parseDuration(k.String("ORDER_TTL"), "720h"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		Rates: pricing.Rates{
			FreeShippingMin: parseMoney(k.String("PRICING_FREE_SHIPPING_MIN"), 20000),
			StandardFee:     parseMoney(k.String("PRICING_STANDARD_FEE"), 2000),
			ExpressFee:      parseMoney(k.String("PRICING_EXPRESS_FEE"), 3000),
			SameDayFee:      parseMoney(k.String("PRICING_SAMEDAY_FEE"), 5000),
		},
		PromoCodes:        valueOrDefault(k.String("PROMO_CODES"), DefaultPromoCodes),
		OrderConfirmDelay: parseDuration(k.String("ORDER_CONFIRM_DELAY"), "2s"),
		QueueConcurrency:  parseInt(k.String("QUEUE_CONCURRENCY"), 5),
		RateLimit:         valueOrDefault(k.String("RATE_LIMIT"), "120-M"),
		MetricsBucketsCSV: k.String("METRICS_BUCKETS_MS"),
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
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

func parseMoney(value string, fallback pricing.Money) pricing.Money {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return pricing.Money(v)
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
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
