package config

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-secretsmanager-caching-go/secretcache"
)

// SecretGetter is satisfied by *secretcache.Cache.
type SecretGetter interface {
	GetSecretString(secretId string) (string, error)
}

func newSecretCache() (SecretGetter, error) {
	return secretcache.New()
}

// applySecret overlays the JSON object stored under SecretsId. Keys use the
// same names as the config file, e.g. {"stripe_secret_key": "sk_live_..."}.
func (c *Config) applySecret(getter SecretGetter) error {
	secret, err := getter.GetSecretString(c.SecretsId)
	if err != nil {
		return fmt.Errorf("error with fetching secret '%s': %w", c.SecretsId, err)
	}

	if err := json.Unmarshal([]byte(secret), c); err != nil {
		return fmt.Errorf("error with decoding secret '%s': %w", c.SecretsId, err)
	}

	return nil
}
