package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
)

func TestNewAlertStartsActive(t *testing.T) {
	alert := NewAlert("host-1", "/data", 90, 95.5, time.Now().UTC())

	if alert.Status() != valueobject.AlertActive {
		t.Fatalf("expected active status, got %s", alert.Status())
	}
	if alert.ID() == "" {
		t.Fatal("expected generated alert id")
	}
	if !alert.IsOpen() {
		t.Fatal("expected new alert to be open")
	}
}

func TestAcknowledgeTransition(t *testing.T) {
	alert := NewAlert("host-1", "/data", 90, 95.5, time.Now().UTC())
	at := time.Now().UTC()

	if err := alert.Acknowledge(at); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if alert.Status() != valueobject.AlertAcknowledged {
		t.Fatalf("expected acknowledged status, got %s", alert.Status())
	}
	if alert.AcknowledgedAt() == nil || !alert.AcknowledgedAt().Equal(at) {
		t.Fatal("expected acknowledged_at to be set")
	}
	if !alert.IsOpen() {
		t.Fatal("acknowledged alert must remain open")
	}

	// Повторное подтверждение запрещено
	if err := alert.Acknowledge(at.Add(time.Minute)); !errors.Is(err, ErrAlertNotActive) {
		t.Fatalf("expected ErrAlertNotActive on double acknowledge, got %v", err)
	}
}

func TestResolveFromActiveAndAcknowledged(t *testing.T) {
	now := time.Now().UTC()

	active := NewAlert("host-1", "/data", 90, 95, now)
	if err := active.Resolve(now.Add(time.Minute)); err != nil {
		t.Fatalf("resolve active: %v", err)
	}
	if active.Status() != valueobject.AlertResolved {
		t.Fatalf("expected resolved, got %s", active.Status())
	}

	acked := NewAlert("host-1", "/var", 90, 93, now)
	if err := acked.Acknowledge(now.Add(time.Minute)); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if err := acked.Resolve(now.Add(2 * time.Minute)); err != nil {
		t.Fatalf("resolve acknowledged: %v", err)
	}
	if acked.Status() != valueobject.AlertResolved {
		t.Fatalf("expected resolved, got %s", acked.Status())
	}
	if acked.IsOpen() {
		t.Fatal("resolved alert must not be open")
	}
}

func TestAcknowledgeResolvedAlertFails(t *testing.T) {
	now := time.Now().UTC()
	alert := NewAlert("host-1", "/data", 90, 95, now)

	if err := alert.Resolve(now.Add(time.Minute)); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := alert.Acknowledge(now.Add(2 * time.Minute)); !errors.Is(err, ErrAlertNotActive) {
		t.Fatalf("expected ErrAlertNotActive, got %v", err)
	}
	if err := alert.Resolve(now.Add(2 * time.Minute)); !errors.Is(err, ErrAlertNotActive) {
		t.Fatalf("expected ErrAlertNotActive on double resolve, got %v", err)
	}
}
