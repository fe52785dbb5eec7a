package nonceauth

import (
	"context"
	"fmt"
	"time"

	"github.com/Zyphrax/nonceauth/jwt"
)

// Validate verifies a token against the key derived from the live counters
// and returns its decoded claims.
//
// A revoked, malformed, absent, or tampered token comes back as
// [ErrTokenInvalid] — the expected common-path outcome, never a fault. A
// store failure while reading counters is propagated as-is; the caller
// decides retry policy.
//
// Validate mutates nothing: repeated calls on an untouched token all return
// the same claims.
func (m *Manager) Validate(ctx context.Context, token string) (*jwt.Claims, error) {
	if m == nil || m.registry == nil || m.codec == nil {
		return nil, ErrManagerNotReady
	}

	var start time.Time
	if m.metrics.LatencyEnabled() {
		start = time.Now()
	}

	claims, err := m.validate(ctx, token)

	if !start.IsZero() {
		m.metrics.Observe(MetricValidateLatency, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	m.metricInc(MetricValidateSuccess)
	return claims, nil
}

func (m *Manager) validate(ctx context.Context, token string) (*jwt.Claims, error) {
	if token == "" {
		m.metricInc(MetricValidateInvalid)
		return nil, ErrTokenInvalid
	}

	// Unauthenticated peek. Nothing in hint is trusted yet: its uid/lid are
	// used solely to locate the counters for key derivation, and become
	// authentic only once Parse succeeds below.
	hint, err := m.codec.DecodeUnverified(token)
	if err != nil {
		m.metricInc(MetricValidateInvalid)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userNonce, _, err := m.registry.Get(ctx, userNonceKey(hint.UserID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		return nil, err
	}

	// A removed login nonce reads as 0 here, which never matches a signed
	// token: login increments to at least 1 before the first sign.
	loginNonce, _, err := m.registry.Get(ctx, loginNonceKey(hint.UserID, hint.LoginID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		return nil, err
	}

	key, err := m.signingKey(ctx, userNonce, hint.LoginID, loginNonce)
	if err != nil {
		return nil, err
	}

	claims, err := m.codec.Parse(token, key)
	if err != nil {
		m.metricInc(MetricValidateInvalid)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return claims, nil
}
