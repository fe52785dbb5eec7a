package nonceauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zyphrax/nonceauth/jwt"
)

// EventLogin is the audit event type emitted by [Manager.Login].
const EventLogin = "login"

// Login allocates a new session for userID and returns its signed token.
//
// The per-user login ID counter is incremented atomically, so concurrent
// logins for the same user always receive distinct session IDs, monotonic and
// never reused. The session's login nonce is incremented before the first
// sign — a fresh session starts at nonce 1, which keeps the default value 0
// out of every key ever used for signing (single-session logout relies on
// that).
//
// data is merged into the token payload at the top level and carried through
// refreshes untouched. Claim names the manager owns are rejected with
// [ErrReservedClaim].
func (m *Manager) Login(ctx context.Context, userID string, data map[string]any) (string, error) {
	if m == nil || m.counters == nil || m.registry == nil || m.codec == nil {
		return "", ErrManagerNotReady
	}
	if userID == "" {
		m.metricInc(MetricLoginFailure)
		return "", errors.New("user id required")
	}
	for k := range data {
		if jwt.Reserved(k) {
			m.metricInc(MetricLoginFailure)
			return "", fmt.Errorf("%w: %q", ErrReservedClaim, k)
		}
	}

	loginID, err := m.counters.Increment(ctx, loginIDKey(userID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, EventLogin, userID, 0, err)
		return "", err
	}

	// Read, not incremented: login must not revoke the user's other sessions.
	userNonce, _, err := m.registry.Get(ctx, userNonceKey(userID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, EventLogin, userID, loginID, err)
		return "", err
	}

	loginNonce, err := m.counters.Increment(ctx, loginNonceKey(userID, loginID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, EventLogin, userID, loginID, err)
		return "", err
	}

	key, err := m.signingKey(ctx, userNonce, loginID, loginNonce)
	if err != nil {
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, EventLogin, userID, loginID, err)
		return "", err
	}

	token, err := m.codec.Sign(jwt.Claims{
		UserID:  userID,
		LoginID: loginID,
		Data:    data,
	}, key)
	if err != nil {
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, EventLogin, userID, loginID, err)
		return "", err
	}

	m.metricInc(MetricLoginSuccess)
	m.emitAudit(ctx, EventLogin, userID, loginID, nil)
	return token, nil
}
