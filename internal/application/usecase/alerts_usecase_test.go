package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

func TestListAlertsAppliesDefaultAndCap(t *testing.T) {
	repo := newMemoryAlertRepo()
	for i := 0; i < 60; i++ {
		alert := entity.NewAlert("host-1", "/data", 90, 95, time.Now().UTC())
		if err := repo.Save(context.Background(), alert); err != nil {
			t.Fatalf("seed alert: %v", err)
		}
	}

	uc := NewListAlertsUseCase(repo, 50, 500, logger.New("error"))

	alerts, err := uc.Execute(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(alerts) != 50 {
		t.Fatalf("expected default limit 50, got %d", len(alerts))
	}

	alerts, err = uc.Execute(context.Background(), 10000, "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(alerts) != 60 {
		t.Fatalf("expected all 60 alerts under cap, got %d", len(alerts))
	}
}

func TestListAlertsRejectsUnknownStatus(t *testing.T) {
	uc := NewListAlertsUseCase(newMemoryAlertRepo(), 50, 500, logger.New("error"))

	if _, err := uc.Execute(context.Background(), 0, "exploded"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestAcknowledgeAlertHappyPath(t *testing.T) {
	repo := newMemoryAlertRepo()
	alert := entity.NewAlert("host-1", "/data", 90, 95, time.Now().UTC())
	if err := repo.Save(context.Background(), alert); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	uc := NewAcknowledgeAlertUseCase(repo, logger.New("error"))

	result, err := uc.Execute(context.Background(), alert.ID())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Status != "acknowledged" {
		t.Fatalf("expected acknowledged status, got %s", result.Status)
	}
	if result.AcknowledgedAt == nil {
		t.Fatal("expected acknowledged_at to be set")
	}
}

func TestAcknowledgeAlertNotFound(t *testing.T) {
	uc := NewAcknowledgeAlertUseCase(newMemoryAlertRepo(), logger.New("error"))

	_, err := uc.Execute(context.Background(), "missing-id")
	if !errors.Is(err, entity.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestAcknowledgeAlertTwiceConflicts(t *testing.T) {
	repo := newMemoryAlertRepo()
	alert := entity.NewAlert("host-1", "/data", 90, 95, time.Now().UTC())
	if err := repo.Save(context.Background(), alert); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	uc := NewAcknowledgeAlertUseCase(repo, logger.New("error"))

	if _, err := uc.Execute(context.Background(), alert.ID()); err != nil {
		t.Fatalf("first acknowledge: %v", err)
	}
	_, err := uc.Execute(context.Background(), alert.ID())
	if !errors.Is(err, entity.ErrAlertNotActive) {
		t.Fatalf("expected ErrAlertNotActive, got %v", err)
	}
}

func TestGetUsageHistoryReturnsEmptySliceForUnknownMountpoint(t *testing.T) {
	uc := NewGetUsageHistoryUseCase(&memorySnapshotRepo{}, nil, 8760, logger.New("error"))

	points, err := uc.Execute(context.Background(), "/nope", 24)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if points == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(points) != 0 {
		t.Fatalf("expected no points, got %d", len(points))
	}
}

func TestGetUsageHistoryClampsWindow(t *testing.T) {
	repo := &memorySnapshotRepo{}
	now := time.Now().UTC()
	for _, age := range []time.Duration{2 * time.Hour, 30 * time.Minute} {
		s := entity.NewDiskSnapshot("host-1", "/data", "/dev/sda1", "ext4", 1000, 500, 500, now.Add(-age))
		if err := repo.SaveBatch(context.Background(), []*entity.DiskSnapshot{s}); err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
	}

	uc := NewGetUsageHistoryUseCase(repo, nil, 1, logger.New("error"))

	// maxHours = 1 обрезает запрошенные 24 часа до одного
	points, err := uc.Execute(context.Background(), "/data", 24)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected window clamp to 1h (1 point), got %d", len(points))
	}
}
