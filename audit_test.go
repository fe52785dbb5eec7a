package nonceauth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func newAuditedManager(t *testing.T, sink AuditSink) *Manager {
	t.Helper()

	mr, client := newTestRedis(t)

	m, err := New().
		WithSecret(testSecret).
		WithRedis(client).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	t.Cleanup(func() {
		m.Close()
		_ = client.Close()
		mr.Close()
	})

	return m
}

func TestAuditEventsFlowThroughChannelSink(t *testing.T) {
	sink := NewChannelSink(16)
	m := newAuditedManager(t, sink)
	ctx := context.Background()

	token, err := m.Login(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := m.Refresh(ctx, token); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := m.Logout(ctx, "u1", 1); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	want := []string{EventLogin, EventRefresh, EventLogout}
	for _, wantType := range want {
		select {
		case ev := <-sink.Events():
			if ev.EventType != wantType {
				t.Fatalf("expected event %q, got %q", wantType, ev.EventType)
			}
			if !ev.Success {
				t.Fatalf("event %q reported failure: %s", wantType, ev.Error)
			}
			if ev.UserID != "u1" {
				t.Fatalf("event %q has user %q", wantType, ev.UserID)
			}
			if ev.EventID == "" {
				t.Fatalf("event %q missing event id", wantType)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q event", wantType)
		}
	}
}

func TestAuditRecordsFailures(t *testing.T) {
	mr, client := newTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	sink := NewChannelSink(16)
	m, err := New().
		WithSecret(testSecret).
		WithRedis(client).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)

	mr.Close()

	if err := m.LogoutEveryone(context.Background()); err == nil {
		t.Fatal("expected storage failure")
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != EventLogoutEveryone {
			t.Fatalf("expected %q event, got %q", EventLogoutEveryone, ev.EventType)
		}
		if ev.Success || ev.Error == "" {
			t.Fatalf("expected failure event with error text, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for failure event")
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: EventLogin, UserID: "u1", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: EventLogout, UserID: "u1", Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var ev AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if ev.EventType != EventLogin || ev.UserID != "u1" {
		t.Fatalf("unexpected event payload: %+v", ev)
	}
}

func TestCloseDrainsPendingAuditEvents(t *testing.T) {
	mr, client := newTestRedis(t)
	defer func() { _ = client.Close(); mr.Close() }()

	sink := NewChannelSink(64)
	m, err := New().
		WithSecret(testSecret).
		WithRedis(client).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	const logins = 10
	for i := 0; i < logins; i++ {
		if _, err := m.Login(ctx, "u1", nil); err != nil {
			t.Fatalf("login %d failed: %v", i, err)
		}
	}

	m.Close()

	got := 0
	for {
		select {
		case <-sink.Events():
			got++
			if got == logins {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d events after close, got %d", logins, got)
		}
	}
}

func TestAuditDisabledByDefault(t *testing.T) {
	m, _ := newTestManager(t)

	if m.audit != nil {
		t.Fatal("audit dispatcher must be nil when no sink is configured")
	}
	if m.AuditDropped() != 0 {
		t.Fatal("expected zero dropped events")
	}
}
