package nonceauth

import (
	"context"
	"errors"
	"testing"
)

// TestRevocationLifecycleScenario walks one user through the whole lifecycle:
// login, refresh (old copy dies), user-wide revocation, and a fresh login
// that works despite the earlier revocations.
func TestRevocationLifecycleScenario(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close(); mr.Close() })

	m := newRawManager(t, client, "s")
	ctx := context.Background()

	t1, err := m.Login(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	c1, err := m.Validate(ctx, t1)
	if err != nil {
		t.Fatalf("T1 must be valid: %v", err)
	}
	if c1.LoginID != 1 {
		t.Fatalf("expected login id 1, got %d", c1.LoginID)
	}

	t2, err := m.Refresh(ctx, t1)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := m.Validate(ctx, t1); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("T1 must be invalid after refresh, got %v", err)
	}
	if _, err := m.Validate(ctx, t2); err != nil {
		t.Fatalf("T2 must be valid: %v", err)
	}

	if err := m.LogoutAllDevices(ctx, "u1"); err != nil {
		t.Fatalf("user revocation failed: %v", err)
	}
	if _, err := m.Validate(ctx, t2); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("T2 must be invalid after user revocation, got %v", err)
	}

	t3, err := m.Login(ctx, "u1", map[string]any{})
	if err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	c3, err := m.Validate(ctx, t3)
	if err != nil {
		t.Fatalf("T3 must be valid despite prior revocations: %v", err)
	}
	if c3.LoginID != 2 {
		t.Fatalf("expected login id 2, got %d", c3.LoginID)
	}
}
