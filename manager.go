package nonceauth

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Zyphrax/nonceauth/jwt"
)

// Manager owns the nonce hierarchy and the token lifecycle: issue, refresh,
// validate, and revoke at four granularities. It never stores or transmits
// issued tokens; the only persisted state is the counters in the injected
// stores.
//
// Construct through [Builder.Build]. After that, Manager is stateless over
// its dependencies and safe for concurrent use.
type Manager struct {
	config   Config
	counters CounterStore
	registry NonceRegistry
	codec    *jwt.Codec
	metrics  *Metrics
	audit    *auditDispatcher
}

// Close drains and stops the audit dispatcher. The manager must not be used
// afterward.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.audit != nil {
		m.audit.Close()
	}
}

// MetricsSnapshot returns a point-in-time copy of all metric counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) emitAudit(ctx context.Context, eventType, userID string, loginID int64, opErr error) {
	if m == nil || m.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		LoginID:   loginID,
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	m.audit.Emit(ctx, event)
}

/*
====================================
COUNTER KEYS
====================================
*/

// Logical counter names handed to the stores. The store owns physical
// namespacing (prefixing); the manager owns the hierarchy.

const globalNonceKey = "gn"

func userNonceKey(userID string) string {
	return "un:" + userID
}

func loginIDKey(userID string) string {
	return "lid:" + userID
}

func loginNonceKey(userID string, loginID int64) string {
	return "ln:" + userID + ":" + strconv.FormatInt(loginID, 10)
}

/*
====================================
KEY DERIVATION
====================================
*/

// deriveKey is the central algorithm of the scheme: the signing key is the
// exact byte string
//
//	secret + "_" + global + " " + userNonce + " " + loginID + " " + loginNonce
//
// with decimal renderings of the counter values. Identical counter values
// always yield a byte-identical key; any single counter differing yields an
// unrelated HMAC key, which is what turns counter bumps into revocation.
func deriveKey(secret string, global, userNonce, loginID, loginNonce int64) []byte {
	b := make([]byte, 0, len(secret)+44)
	b = append(b, secret...)
	b = append(b, '_')
	b = strconv.AppendInt(b, global, 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, userNonce, 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, loginID, 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, loginNonce, 10)
	return b
}

// signingKey reads the live global nonce and derives the key for one session.
// The global value is read fresh on every derivation so a LogoutEveryone
// takes effect on the next operation, everywhere.
func (m *Manager) signingKey(ctx context.Context, userNonce, loginID, loginNonce int64) ([]byte, error) {
	global, _, err := m.registry.Get(ctx, globalNonceKey)
	if err != nil {
		m.metricInc(MetricStoreFailure)
		return nil, err
	}
	return deriveKey(m.config.Secret, global, userNonce, loginID, loginNonce), nil
}
