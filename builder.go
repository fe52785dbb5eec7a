package nonceauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/Zyphrax/nonceauth/jwt"
	"github.com/Zyphrax/nonceauth/redisstore"
)

// Builder assembles a [Manager]. Configure it fluently, then call Build once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	counters CounterStore
	registry NonceRegistry

	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecret sets the static key-derivation secret.
func (b *Builder) WithSecret(secret string) *Builder {
	b.config.Secret = secret
	return b
}

// WithRedis supplies the Redis client backing the reference store. Ignored
// when WithStores provides custom capability implementations.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStores injects custom capability implementations in place of the
// reference Redis store. Both must be backed by the same logical keyspace:
// values written through one capability must be readable through the other.
func (b *Builder) WithStores(counters CounterStore, registry NonceRegistry) *Builder {
	b.counters = counters
	b.registry = registry
	return b
}

// WithAuditSink sets the destination for lifecycle audit events and enables
// audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the in-process metrics collector.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles Validate latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the stores and codec, and returns
// a ready [Manager]. A Builder is single-use.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	counters := b.counters
	registry := b.registry
	switch {
	case counters != nil && registry != nil:
		// custom stores, redis client unused
	case counters == nil && registry == nil:
		if b.redis == nil {
			return nil, errors.New("redis client or custom stores required")
		}
		store := redisstore.New(b.redis, cfg.Store.RedisPrefix)
		counters = store
		registry = store
	default:
		return nil, errors.New("counter store and registry must be provided together")
	}

	codec, err := jwt.NewCodec(jwt.Config{
		TTL:    cfg.Token.TTL,
		Issuer: cfg.Token.Issuer,
		Leeway: cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Manager{
		config:   cfg,
		counters: counters,
		registry: registry,
		codec:    codec,
		metrics:  NewMetrics(cfg.Metrics),
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
	}, nil
}
