package nonceauth

import (
	"errors"
	"time"
)

// Config groups all manager configuration. Instances are treated as immutable
// after [Builder.Build].
type Config struct {
	// Secret is the static component of every derived signing key. It never
	// leaves the process and is never used as a signing key on its own.
	Secret string

	Token   TokenConfig
	Store   StoreConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls the optional registered claims on issued tokens. The
// revocation scheme itself needs none of them; expiry and issuer are offered
// for callers that want defense in depth.
type TokenConfig struct {
	// TTL sets an exp claim on issued tokens when positive. Zero disables
	// expiry entirely: revocation is then the only way a token dies.
	TTL time.Duration
	// Issuer sets and enforces the iss claim when non-empty.
	Issuer string
	// Leeway is the clock-skew allowance applied when validating exp.
	Leeway time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig controls the reference Redis collaborator.
type StoreConfig struct {
	// RedisPrefix namespaces every counter key. Two managers sharing one
	// Redis must either share the prefix (shared revocation state) or use
	// distinct prefixes (isolated systems).
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull counts and discards events instead of blocking the caller
	// when the buffer is saturated.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics collector.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			RedisPrefix: "na",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations that would produce a weak or misbehaving
// manager. Called by [Builder.Build].
func (c Config) Validate() error {
	if len(c.Secret) < 16 {
		return errors.New("secret must be at least 16 bytes")
	}
	if c.Token.TTL < 0 {
		return errors.New("invalid token TTL configuration")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	if c.Store.RedisPrefix == "" {
		return errors.New("redis prefix required")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("invalid audit buffer size")
	}
	return nil
}
