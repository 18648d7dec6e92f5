package entity

import (
	"testing"
	"time"
)

func TestUsagePercentDerivation(t *testing.T) {
	tests := []struct {
		name     string
		total    uint64
		used     uint64
		expected float64
	}{
		{"half full", 1000, 500, 50},
		{"empty", 1000, 0, 0},
		{"full", 1000, 1000, 100},
		{"zero total", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", tt.total, tt.used, tt.total-tt.used, time.Now().UTC())
			if s.UsagePercent() != tt.expected {
				t.Fatalf("expected %.1f%%, got %.1f%%", tt.expected, s.UsagePercent())
			}
		})
	}
}

func TestExceedsThresholdIsStrict(t *testing.T) {
	s := NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 1000, 900, 100, time.Now().UTC())

	if s.ExceedsThreshold(90) {
		t.Fatal("90% must not exceed threshold 90")
	}
	if !s.ExceedsThreshold(89.9) {
		t.Fatal("90% must exceed threshold 89.9")
	}
}

func TestAccountingSlackBytes(t *testing.T) {
	// ext4 резервирует блоки: used+free < total
	s := NewDiskSnapshot("host-1", "/", "/dev/sda1", "ext4", 1000, 500, 450, time.Now().UTC())

	if slack := s.AccountingSlackBytes(); slack != 50 {
		t.Fatalf("expected slack 50, got %d", slack)
	}
}
