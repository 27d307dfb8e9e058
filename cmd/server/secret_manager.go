package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/commercekit/paymill-bridge/internal/adapters/secrets"
	"github.com/commercekit/paymill-bridge/internal/adapters/shopapi"
	"github.com/commercekit/paymill-bridge/internal/config"
	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// initSecretManager selects the secret backend the processor private key
// is read from.
//
// Environment variables:
//   - SECRETS_BACKEND: "env", "vault" or "aws" (default: env)
//   - SECRETS_KEY_PATH: secret path in the selected backend
//   - VAULT_ADDR, VAULT_TOKEN: required for the vault backend
//   - AWS_REGION: optional region override for the aws backend
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Secrets.Backend {
	case config.SecretBackendEnv:
		return secrets.NewEnvSecretManager(), nil
	case config.SecretBackendVault:
		return secrets.NewVaultAdapter(
			secrets.DefaultVaultConfig(cfg.Secrets.VaultAddr, cfg.Secrets.VaultToken), logger)
	case config.SecretBackendAWS:
		return secrets.NewAWSSecretsManager(ctx, cfg.Secrets.AWSRegion, logger)
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}
}

// newOrderClient wires the shop platform order API adapter.
func newOrderClient(cfg *config.Config, logger ports.Logger) *shopapi.OrderClient {
	return shopapi.NewOrderClientWithDefaults(shopapi.Config{
		BaseURL: cfg.Shop.BaseURL,
		APIKey:  cfg.Shop.APIKey,
		Timeout: cfg.Shop.Timeout,
	}, logger)
}
