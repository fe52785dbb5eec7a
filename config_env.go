package nonceauth

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Secret       string        `env:"NONCEAUTH_SECRET,notEmpty"`
	TokenTTL     time.Duration `env:"NONCEAUTH_TOKEN_TTL" envDefault:"0"`
	TokenIssuer  string        `env:"NONCEAUTH_TOKEN_ISSUER"`
	TokenLeeway  time.Duration `env:"NONCEAUTH_TOKEN_LEEWAY" envDefault:"0"`
	RedisPrefix  string        `env:"NONCEAUTH_REDIS_PREFIX" envDefault:"na"`
	AuditEnabled bool          `env:"NONCEAUTH_AUDIT_ENABLED" envDefault:"false"`
	AuditBuffer  int           `env:"NONCEAUTH_AUDIT_BUFFER" envDefault:"256"`
	AuditDrop    bool          `env:"NONCEAUTH_AUDIT_DROP_IF_FULL" envDefault:"true"`
	Metrics      bool          `env:"NONCEAUTH_METRICS_ENABLED" envDefault:"true"`
	Latency      bool          `env:"NONCEAUTH_METRICS_LATENCY" envDefault:"false"`
}

// LoadConfig builds a [Config] from NONCEAUTH_* environment variables. A
// .env file in the working directory is honored when present and silently
// skipped otherwise. The result is not yet validated; [Builder.Build] does
// that.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return Config{
		Secret: ec.Secret,
		Token: TokenConfig{
			TTL:    ec.TokenTTL,
			Issuer: ec.TokenIssuer,
			Leeway: ec.TokenLeeway,
		},
		Store: StoreConfig{
			RedisPrefix: ec.RedisPrefix,
		},
		Audit: AuditConfig{
			Enabled:    ec.AuditEnabled,
			BufferSize: ec.AuditBuffer,
			DropIfFull: ec.AuditDrop,
		},
		Metrics: MetricsConfig{
			Enabled:                 ec.Metrics,
			EnableLatencyHistograms: ec.Latency,
		},
	}, nil
}
