package nonceauth

import (
	"testing"
	"time"
)

func TestBuilderRequiresSecret(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close(); mr.Close() })

	if _, err := New().WithRedis(client).Build(); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := New().WithSecret("short").WithRedis(client).Build(); err == nil {
		t.Fatal("expected error for weak secret")
	}
}

func TestBuilderRequiresStoreOrRedis(t *testing.T) {
	if _, err := New().WithSecret(testSecret).Build(); err == nil {
		t.Fatal("expected error without redis client or stores")
	}
}

func TestBuilderRejectsPartialStores(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close(); mr.Close() })

	m, err := New().WithSecret(testSecret).WithRedis(client).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer m.Close()

	if _, err := New().
		WithSecret(testSecret).
		WithStores(m.counters, nil).
		Build(); err == nil {
		t.Fatal("expected error for counter store without registry")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close(); mr.Close() })

	b := New().WithSecret(testSecret).WithRedis(client)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestBuilderValidatesTokenConfig(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close(); mr.Close() })

	cfg := defaultConfig()
	cfg.Secret = testSecret
	cfg.Token.Leeway = 5 * time.Minute

	if _, err := New().WithConfig(cfg).WithRedis(client).Build(); err == nil {
		t.Fatal("expected error for oversized leeway")
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("NONCEAUTH_SECRET", testSecret)
	t.Setenv("NONCEAUTH_TOKEN_TTL", "15m")
	t.Setenv("NONCEAUTH_TOKEN_ISSUER", "nonceauth-test")
	t.Setenv("NONCEAUTH_REDIS_PREFIX", "nx")
	t.Setenv("NONCEAUTH_AUDIT_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Secret != testSecret {
		t.Fatalf("secret not loaded: %q", cfg.Secret)
	}
	if cfg.Token.TTL != 15*time.Minute {
		t.Fatalf("expected TTL 15m, got %v", cfg.Token.TTL)
	}
	if cfg.Token.Issuer != "nonceauth-test" {
		t.Fatalf("issuer not loaded: %q", cfg.Token.Issuer)
	}
	if cfg.Store.RedisPrefix != "nx" {
		t.Fatalf("prefix not loaded: %q", cfg.Store.RedisPrefix)
	}
	if !cfg.Audit.Enabled {
		t.Fatal("audit flag not loaded")
	}
	if cfg.Audit.BufferSize != 256 {
		t.Fatalf("expected default audit buffer 256, got %d", cfg.Audit.BufferSize)
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("NONCEAUTH_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
