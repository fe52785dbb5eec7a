package nonceauth

import (
	"context"
)

// EventRefresh is the audit event type emitted by [Manager.Refresh].
const EventRefresh = "refresh"

// Refresh exchanges a valid token for a new one over the same session,
// silently invalidating the presented token: the session's login nonce is
// incremented, so the old token's signing key no longer exists anywhere.
//
// The new token carries the same user ID, login ID, and caller data; only its
// nonce (and jti) differ. A revoked or malformed input is rejected with
// [ErrTokenInvalid] — refresh never resurrects a dead token.
func (m *Manager) Refresh(ctx context.Context, token string) (string, error) {
	if m == nil || m.counters == nil || m.registry == nil || m.codec == nil {
		return "", ErrManagerNotReady
	}

	claims, err := m.validate(ctx, token)
	if err != nil {
		m.metricInc(MetricRefreshFailure)
		return "", err
	}

	// User nonce re-read fresh: a LogoutAllDevices racing this refresh must
	// win in the signed output even if validation above saw the old value.
	userNonce, _, err := m.registry.Get(ctx, userNonceKey(claims.UserID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		m.metricInc(MetricRefreshFailure)
		m.emitAudit(ctx, EventRefresh, claims.UserID, claims.LoginID, err)
		return "", err
	}

	// The step that revokes the presented token.
	loginNonce, err := m.counters.Increment(ctx, loginNonceKey(claims.UserID, claims.LoginID))
	if err != nil {
		m.metricInc(MetricStoreFailure)
		m.metricInc(MetricRefreshFailure)
		m.emitAudit(ctx, EventRefresh, claims.UserID, claims.LoginID, err)
		return "", err
	}

	key, err := m.signingKey(ctx, userNonce, claims.LoginID, loginNonce)
	if err != nil {
		m.metricInc(MetricRefreshFailure)
		m.emitAudit(ctx, EventRefresh, claims.UserID, claims.LoginID, err)
		return "", err
	}

	claims.TokenID = "" // new token, new jti
	newToken, err := m.codec.Sign(*claims, key)
	if err != nil {
		m.metricInc(MetricRefreshFailure)
		m.emitAudit(ctx, EventRefresh, claims.UserID, claims.LoginID, err)
		return "", err
	}

	m.metricInc(MetricRefreshSuccess)
	m.emitAudit(ctx, EventRefresh, claims.UserID, claims.LoginID, nil)
	return newToken, nil
}
