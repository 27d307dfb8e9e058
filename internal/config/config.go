package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/commercekit/paymill-bridge/internal/domain"
	"github.com/commercekit/paymill-bridge/internal/services/checkout"
)

// SecretBackend selects where the processor private key is read from.
type SecretBackend string

const (
	SecretBackendEnv   SecretBackend = "env"
	SecretBackendVault SecretBackend = "vault"
	SecretBackendAWS   SecretBackend = "aws"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv      string
	Port        string
	MetricsPort string

	DatabaseURL string
	RedisURL    string

	Paymill PaymillConfig
	Shop    ShopConfig
	Secrets SecretsConfig
}

// ShopConfig addresses the shop platform's order API, the surface the
// invoice trigger drives after a pre-authenticated checkout.
type ShopConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PaymillConfig configures the processor integration.
type PaymillConfig struct {
	// BaseURL of the processor API.
	BaseURL string

	// Currency is the store currency sent with every charge.
	Currency string

	// Source is the integration tag sent with pre-auth and capture calls.
	Source string

	// FastCheckoutEnabled turns stored-identifier reuse on or off.
	FastCheckoutEnabled bool

	// Tolerances are the per-method pre-authorization paddings in minor
	// units.
	Tolerances checkout.Tolerances

	// Timeout bounds each processor API call.
	Timeout time.Duration

	// PreAuthCacheTTL bounds how long a session's pre-auth amount stays
	// cached.
	PreAuthCacheTTL time.Duration
}

// SecretsConfig selects and addresses the private key source.
type SecretsConfig struct {
	// Backend is env, vault or aws.
	Backend SecretBackend

	// KeyPath is the secret path (Vault KV path, AWS secret name, or
	// environment variable name for the env backend).
	KeyPath string

	VaultAddr  string
	VaultToken string
	AWSRegion  string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:      valueOrDefault(k.String("APP_ENV"), "development"),
		Port:        valueOrDefault(k.String("PORT"), "8080"),
		MetricsPort: valueOrDefault(k.String("METRICS_PORT"), "9090"),
		DatabaseURL: k.String("DATABASE_URL"),
		RedisURL:    k.String("REDIS_URL"),
		Paymill: PaymillConfig{
			BaseURL:             valueOrDefault(k.String("PAYMILL_BASE_URL"), "https://api.paymill.com/v2"),
			Currency:            valueOrDefault(k.String("PAYMILL_CURRENCY"), "EUR"),
			Source:              valueOrDefault(k.String("PAYMILL_SOURCE"), "paymill-bridge"),
			FastCheckoutEnabled: parseBool(valueOrDefault(k.String("PAYMILL_FAST_CHECKOUT_ENABLED"), "true")),
			Tolerances: checkout.Tolerances{
				domain.MethodCreditCard:  k.Int64("PAYMILL_TOLERANCE_CC_CENTS"),
				domain.MethodDirectDebit: k.Int64("PAYMILL_TOLERANCE_ELV_CENTS"),
			},
			Timeout:         parseDuration(k.String("PAYMILL_TIMEOUT"), "30s"),
			PreAuthCacheTTL: parseDuration(k.String("PAYMILL_PREAUTH_CACHE_TTL"), "30m"),
		},
		Shop: ShopConfig{
			BaseURL: k.String("SHOP_API_BASE_URL"),
			APIKey:  k.String("SHOP_API_KEY"),
			Timeout: parseDuration(k.String("SHOP_API_TIMEOUT"), "30s"),
		},
		Secrets: SecretsConfig{
			Backend:    SecretBackend(valueOrDefault(k.String("SECRETS_BACKEND"), string(SecretBackendEnv))),
			KeyPath:    valueOrDefault(k.String("SECRETS_KEY_PATH"), "PAYMILL_PRIVATE_KEY"),
			VaultAddr:  k.String("VAULT_ADDR"),
			VaultToken: k.String("VAULT_TOKEN"),
			AWSRegion:  k.String("AWS_REGION"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.Shop.BaseURL == "" {
		return nil, errors.New("SHOP_API_BASE_URL is required")
	}
	switch cfg.Secrets.Backend {
	case SecretBackendEnv:
	case SecretBackendVault:
		if cfg.Secrets.VaultAddr == "" || cfg.Secrets.VaultToken == "" {
			return nil, errors.New("VAULT_ADDR and VAULT_TOKEN are required for the vault secrets backend")
		}
	case SecretBackendAWS:
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}

	return cfg, nil
}

// HTTPAddr returns the address the API server should bind to.
func (c *Config) HTTPAddr() string { return addr(c.Port, "8080") }

// MetricsAddr returns the address the metrics server should bind to.
func (c *Config) MetricsAddr() string { return addr(c.MetricsPort, "9090") }

func addr(port, fallback string) string {
	p := strings.TrimSpace(port)
	if p == "" {
		p = fallback
	}
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
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

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
