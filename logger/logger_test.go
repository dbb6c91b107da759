package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("login", "email", "alice@x.com", "password", "hunter2", "jwt_token", "abc")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["email"] != "alice@x.com" {
		t.Errorf("email should pass through, got %v", fields["email"])
	}
	if fields["password"] != "[REDACTED]" {
		t.Errorf("password not redacted: %v", fields["password"])
	}
	if fields["jwt_token"] != "[REDACTED]" {
		t.Errorf("token not redacted: %v", fields["jwt_token"])
	}
}

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("service", "progress")

	l.Warn("slow store")

	if got := logs.All()[0].ContextMap()["service"]; got != "progress" {
		t.Fatalf("expected service field, got %v", got)
	}
}

func TestOddKeyValuesDoNotPanic(t *testing.T) {
	Nop().Error("dangling", "key")
}
