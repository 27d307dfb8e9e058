package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault adapter
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Token for token authentication
	Token string

	// KV secrets engine mount path (default: "secret")
	MountPath string

	// Cache TTL for retrieved secrets
	CacheTTL time.Duration
}

// DefaultVaultConfig returns default configuration for the Vault adapter
func DefaultVaultConfig(address, token string) *VaultConfig {
	return &VaultConfig{
		Address:   address,
		Token:     token,
		MountPath: "secret",
		CacheTTL:  5 * time.Minute,
	}
}

type cachedSecret struct {
	secret    *ports.Secret
	expiresAt time.Time
}

// vaultAdapter implements the SecretManager port for HashiCorp Vault KV v2
type vaultAdapter struct {
	client *vault.Client
	config *VaultConfig
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]cachedSecret
}

// NewVaultAdapter creates a new HashiCorp Vault adapter
func NewVaultAdapter(cfg *VaultConfig, logger *zap.Logger) (ports.SecretManager, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &vaultAdapter{
		client: client,
		config: cfg,
		logger: logger,
		cache:  make(map[string]cachedSecret),
	}, nil
}

// GetSecret retrieves a secret from Vault's KV v2 engine
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if secret, ok := a.fromCache(path); ok {
		return secret, nil
	}

	a.logger.Debug("reading secret from vault", zap.String("path", path))

	kv := a.client.KVv2(a.config.MountPath)
	data, err := kv.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read vault secret %s: %w", path, err)
	}

	value, ok := data.Data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("vault secret %s has no string field 'value'", path)
	}

	secret := &ports.Secret{
		Value:   value,
		Version: fmt.Sprintf("%d", data.VersionMetadata.Version),
	}
	a.toCache(path, secret)
	return secret, nil
}

func (a *vaultAdapter) fromCache(path string) (*ports.Secret, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.cache[path]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.secret, true
}

func (a *vaultAdapter) toCache(path string, secret *ports.Secret) {
	if a.config.CacheTTL <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[path] = cachedSecret{secret: secret, expiresAt: time.Now().Add(a.config.CacheTTL)}
}
