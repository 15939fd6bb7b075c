package vault

import (
	"context"
	"testing"

	"photon-trading-bot/config"
)

func TestSessionCookieDisabledUsesFallback(t *testing.T) {
	c, err := NewClient(config.VaultConfig{Enabled: false}, "session=abc")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	cookie, err := c.SessionCookie(context.Background())
	if err != nil {
		t.Fatalf("SessionCookie() error: %v", err)
	}
	if cookie != "session=abc" {
		t.Errorf("cookie = %q, want the fallback", cookie)
	}
	if c.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("disabled vault health should pass: %v", err)
	}
}

func TestSessionCookieDisabledWithoutFallback(t *testing.T) {
	c, err := NewClient(config.VaultConfig{Enabled: false}, "")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	if _, err := c.SessionCookie(context.Background()); err == nil {
		t.Error("no fallback and no vault must be an error, not an empty cookie")
	}
}

func TestStaleOrErrorServesCachedCookie(t *testing.T) {
	c := &Client{cached: "session=old"}

	cookie, err := c.staleOrError(context.DeadlineExceeded)
	if err != nil {
		t.Fatalf("staleOrError() error: %v", err)
	}
	if cookie != "session=old" {
		t.Errorf("cookie = %q, want the cached value", cookie)
	}

	c.ClearCache()
	if _, err := c.staleOrError(context.DeadlineExceeded); err == nil {
		t.Error("without a cached cookie the outage must surface")
	}
}
