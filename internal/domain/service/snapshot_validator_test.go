package service

import (
	"testing"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
)

func TestValidateAcceptsNormalSnapshot(t *testing.T) {
	validator := NewSnapshotValidator()
	s := entity.NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 1000, 500, 500, time.Now().UTC())

	if err := validator.Validate(s); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsBadSnapshots(t *testing.T) {
	validator := NewSnapshotValidator()
	now := time.Now().UTC()

	tests := []struct {
		name     string
		snapshot *entity.DiskSnapshot
	}{
		{"empty mountpoint", entity.NewDiskSnapshot("host-1", "", "/dev/sda1", "ext4", 1000, 500, 500, now)},
		{"zero total", entity.NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 0, 0, 0, now)},
		{"used exceeds total", entity.NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 1000, 1500, 0, now)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validator.Validate(tt.snapshot); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSlackRatioToleratesReservedBlocks(t *testing.T) {
	validator := NewSnapshotValidator()

	// used+free = 95% от total: типичные 5% резервных блоков ext4
	s := entity.NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 1000, 500, 450, time.Now().UTC())

	if err := validator.Validate(s); err != nil {
		t.Fatalf("slack must not fail validation: %v", err)
	}
	if ratio := validator.SlackRatio(s); ratio != 0.05 {
		t.Fatalf("expected slack ratio 0.05, got %v", ratio)
	}
}
