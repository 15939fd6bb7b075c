package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/vault/api"

	"photon-trading-bot/config"
)

// Client reads the Photon session cookie from HashiCorp Vault. When Vault
// is disabled the fallback cookie from configuration is served instead, so
// development setups work without a Vault deployment.
type Client struct {
	client *api.Client
	config config.VaultConfig

	mu        sync.RWMutex
	cached    string
	fetchedAt time.Time
	cacheTTL  time.Duration

	fallback string
}

// NewClient creates a new Vault client. fallback is the cookie used when
// Vault is disabled (typically from the PHOTON_COOKIE environment variable).
func NewClient(cfg config.VaultConfig, fallback string) (*Client, error) {
	c := &Client{
		config:   cfg,
		cacheTTL: 5 * time.Minute,
		fallback: fallback,
	}
	if !cfg.Enabled {
		return c, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{CACert: cfg.CACert}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)
	c.client = client

	return c, nil
}

// SessionCookie returns the current Photon session cookie. Vault reads are
// cached briefly; rotating the secret in Vault takes effect within the TTL
// without a restart.
func (c *Client) SessionCookie(ctx context.Context) (string, error) {
	if !c.config.Enabled {
		if c.fallback == "" {
			return "", fmt.Errorf("no session cookie configured and vault is disabled")
		}
		return c.fallback, nil
	}

	c.mu.RLock()
	if c.cached != "" && time.Since(c.fetchedAt) < c.cacheTTL {
		cookie := c.cached
		c.mu.RUnlock()
		return cookie, nil
	}
	c.mu.RUnlock()

	path := fmt.Sprintf("%s/data/%s", c.config.MountPath, c.config.SecretPath)
	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return c.staleOrError(fmt.Errorf("failed to read session cookie from vault: %w", err))
	}
	if secret == nil || secret.Data == nil {
		return c.staleOrError(fmt.Errorf("session cookie not found in vault"))
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return c.staleOrError(fmt.Errorf("invalid secret format"))
	}
	cookie := getString(data, "cookie")
	if cookie == "" {
		return c.staleOrError(fmt.Errorf("session cookie empty in vault secret"))
	}

	c.mu.Lock()
	c.cached = cookie
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return cookie, nil
}

// staleOrError serves the last known cookie when Vault is temporarily
// unreachable. Feed auth keeps working through short Vault outages.
func (c *Client) staleOrError(err error) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached != "" {
		return c.cached, nil
	}
	return "", err
}

// ClearCache drops the cached cookie so the next read hits Vault.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cached = ""
	c.mu.Unlock()
}

// IsEnabled returns whether Vault is enabled
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// Health checks the Vault connection
func (c *Client) Health(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}
	return nil
}

func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
