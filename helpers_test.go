package nonceauth

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Zyphrax/nonceauth/jwt"
	"github.com/Zyphrax/nonceauth/redisstore"
)

const testSecret = "unit-test-secret-0123456789"

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()

	mr, client := newTestRedis(t)

	m, err := New().
		WithSecret(testSecret).
		WithRedis(client).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	t.Cleanup(func() {
		m.Close()
		_ = client.Close()
		mr.Close()
	})

	return m, mr
}

// newRawManager builds a Manager directly, bypassing Build's config
// validation, for tests that need a specific (possibly weak) secret.
func newRawManager(t *testing.T, client *redis.Client, secret string) *Manager {
	t.Helper()

	codec, err := jwt.NewCodec(jwt.Config{})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	store := redisstore.New(client, "na")
	return &Manager{
		config:   Config{Secret: secret, Store: StoreConfig{RedisPrefix: "na"}},
		counters: store,
		registry: store,
		codec:    codec,
		metrics:  NewMetrics(MetricsConfig{Enabled: true}),
	}
}
