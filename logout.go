package nonceauth

import (
	"context"
	"errors"
)

// Audit event types emitted by the logout family.
const (
	EventLogout           = "logout"
	EventLogoutAllDevices = "logout_all_devices"
	EventLogoutEveryone   = "logout_everyone"
	EventReset            = "reset"
)

// Logout revokes one session by deleting its login nonce. The session's next
// counter read reverts to the default 0, which no issued token was ever
// signed under (login increments to >= 1 before the first sign), so the
// session's token stops verifying. Other sessions of the same user are
// untouched.
//
// The login ID is never reused: a later login for the same user allocates the
// next sequential ID. Storage failures are reported, not swallowed.
func (m *Manager) Logout(ctx context.Context, userID string, loginID int64) error {
	if m == nil || m.registry == nil {
		return ErrManagerNotReady
	}
	if userID == "" || loginID <= 0 {
		return errors.New("user id and login id required")
	}

	if err := m.registry.Remove(ctx, loginNonceKey(userID, loginID)); err != nil {
		m.metricInc(MetricStoreFailure)
		m.emitAudit(ctx, EventLogout, userID, loginID, err)
		return err
	}

	m.metricInc(MetricLogout)
	m.emitAudit(ctx, EventLogout, userID, loginID, nil)
	return nil
}

// LogoutAllDevices revokes every session of one user by incrementing the
// user's nonce. All tokens signed under the previous value — every login ID
// the user ever had — stop verifying. Login ID allocation continues
// unaffected; the user's next login simply gets the next sequential ID.
func (m *Manager) LogoutAllDevices(ctx context.Context, userID string) error {
	if m == nil || m.counters == nil {
		return ErrManagerNotReady
	}
	if userID == "" {
		return errors.New("user id required")
	}

	if _, err := m.counters.Increment(ctx, userNonceKey(userID)); err != nil {
		m.metricInc(MetricStoreFailure)
		m.emitAudit(ctx, EventLogoutAllDevices, userID, 0, err)
		return err
	}

	m.metricInc(MetricLogoutAllDevices)
	m.emitAudit(ctx, EventLogoutAllDevices, userID, 0, nil)
	return nil
}

// LogoutEveryone revokes every token ever issued by this system, for every
// user, by incrementing the global nonce. The derivation formula embeds the
// live global value, so every previously issued token was signed under a key
// that no longer exists.
func (m *Manager) LogoutEveryone(ctx context.Context) error {
	if m == nil || m.counters == nil {
		return ErrManagerNotReady
	}

	if _, err := m.counters.Increment(ctx, globalNonceKey); err != nil {
		m.metricInc(MetricStoreFailure)
		m.emitAudit(ctx, EventLogoutEveryone, "", 0, err)
		return err
	}

	m.metricInc(MetricLogoutEveryone)
	m.emitAudit(ctx, EventLogoutEveryone, "", 0, nil)
	return nil
}

// Reset wipes every counter in the store. Operational escape hatch for full
// system resets — NOT a revocation primitive: after a reset, login IDs
// restart from 1, so a token issued before the reset can verify again once
// its session coordinates are re-allocated with matching counter values.
// Use [Manager.LogoutEveryone] for revocation; pair Reset with a new Secret.
func (m *Manager) Reset(ctx context.Context) error {
	if m == nil || m.registry == nil {
		return ErrManagerNotReady
	}

	if err := m.registry.Clear(ctx); err != nil {
		m.metricInc(MetricStoreFailure)
		m.emitAudit(ctx, EventReset, "", 0, err)
		return err
	}

	m.emitAudit(ctx, EventReset, "", 0, nil)
	return nil
}
