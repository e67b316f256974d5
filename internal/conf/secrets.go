package conf

import (
	"fmt"
	"os"

	"github.com/hashicorp/vault/api"
)

// VaultSource fetches provider credentials from HashiCorp Vault. Hosts that
// do not run Vault fall back to environment variables.
type VaultSource struct {
	client     *api.Client
	path       string
	secretData map[string]interface{}
}

// NewVaultSource initializes a Vault client from VAULT_ADDR, VAULT_TOKEN and
// VAULT_PATH and caches the secrets found at the configured path.
func NewVaultSource() (*VaultSource, error) {
	vaultAddr := os.Getenv("VAULT_ADDR")
	vaultToken := os.Getenv("VAULT_TOKEN")
	vaultPath := os.Getenv("VAULT_PATH")

	if vaultAddr == "" {
		return nil, fmt.Errorf("VAULT_ADDR environment variable is not set")
	}
	if vaultToken == "" {
		return nil, fmt.Errorf("VAULT_TOKEN environment variable is not set")
	}
	if vaultPath == "" {
		return nil, fmt.Errorf("VAULT_PATH environment variable is not set")
	}

	client, err := api.NewClient(&api.Config{Address: vaultAddr})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Vault client: %w", err)
	}
	client.SetToken(vaultToken)

	source := &VaultSource{client: client, path: vaultPath}
	if err := source.fetchSecrets(); err != nil {
		return nil, fmt.Errorf("failed to fetch secrets from Vault: %w", err)
	}
	return source, nil
}

func (v *VaultSource) fetchSecrets() error {
	secret, err := v.client.Logical().Read(v.path)
	if err != nil {
		return err
	}
	if secret == nil || secret.Data == nil {
		return fmt.Errorf("no secrets found at path: %s", v.path)
	}
	if data, ok := secret.Data["data"].(map[string]interface{}); ok {
		v.secretData = data
	}
	return nil
}

// GetSecret returns the cached secret for key, or empty when absent.
func (v *VaultSource) GetSecret(key string) string {
	if value, ok := v.secretData[key].(string); ok {
		return value
	}
	return ""
}

// ResolveAPIKey resolves the provider API key: Vault when VAULT_ADDR is
// configured, otherwise the PUSH_API_KEY environment variable.
func ResolveAPIKey() (string, error) {
	if os.Getenv("VAULT_ADDR") != "" {
		source, err := NewVaultSource()
		if err != nil {
			return "", err
		}
		if key := source.GetSecret("PUSH_API_KEY"); key != "" {
			return key, nil
		}
	}

	if key := os.Getenv("PUSH_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("PUSH_API_KEY is not configured")
}
