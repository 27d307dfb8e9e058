// Package secrets provides SecretManager adapters for the processor
// credential: plain environment for development, HashiCorp Vault and AWS
// Secrets Manager for production deployments.
package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// envSecretManager resolves secrets from environment variables.
// For development only; use Vault or AWS Secrets Manager in production.
type envSecretManager struct{}

// NewEnvSecretManager creates a secret manager backed by the process
// environment. The secret path is the variable name.
func NewEnvSecretManager() ports.SecretManager {
	return envSecretManager{}
}

func (envSecretManager) GetSecret(_ context.Context, path string) (*ports.Secret, error) {
	value := os.Getenv(path)
	if value == "" {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value, Version: "v1"}, nil
}
