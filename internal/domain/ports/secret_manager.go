package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value    string
	Version  string
	Metadata map[string]string
}

// SecretManager is the port for retrieving the processor credential from
// a secret backend. Supported backends: plain environment, HashiCorp
// Vault, AWS Secrets Manager. Implementations handle authentication with
// the backend and may cache values with a TTL.
type SecretManager interface {
	// GetSecret retrieves a secret by its path/name. Path format depends
	// on the implementation:
	//   - env:   the variable name, e.g. "PAYMILL_PRIVATE_KEY"
	//   - vault: "secret/data/paymill-bridge/private-key"
	//   - aws:   "paymill-bridge/private-key"
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
