package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// awsSecretsManager implements the SecretManager port for AWS Secrets Manager
type awsSecretsManager struct {
	client *secretsmanager.Client
	logger *zap.Logger
}

// NewAWSSecretsManager creates an adapter using the default AWS credential
// chain (environment, shared config, instance role).
func NewAWSSecretsManager(ctx context.Context, region string, logger *zap.Logger) (ports.SecretManager, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &awsSecretsManager{
		client: secretsmanager.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

// GetSecret retrieves a secret from AWS Secrets Manager
func (m *awsSecretsManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	m.logger.Debug("reading secret from aws secrets manager", zap.String("secret_id", path))

	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret value %s: %w", path, err)
	}

	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", path)
	}

	secret := &ports.Secret{Value: *out.SecretString}
	if out.VersionId != nil {
		secret.Version = *out.VersionId
	}
	return secret, nil
}
