package service

import (
	"errors"
	"fmt"
)

// SnapshotValidator проверяет корректность снимков (Domain Service)
type SnapshotValidator struct{}

// NewSnapshotValidator создает новый SnapshotValidator
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{}
}

// validatable покрывает и DiskSnapshot, и сырые показания источника
type validatable interface {
	Mountpoint() string
	TotalBytes() uint64
	UsedBytes() uint64
	FreeBytes() uint64
	UsagePercent() float64
}

// Validate проверяет снимок на структурную корректность
func (v *SnapshotValidator) Validate(s validatable) error {
	if s.Mountpoint() == "" {
		return errors.New("mountpoint cannot be empty")
	}

	if s.TotalBytes() == 0 {
		return errors.New("total bytes cannot be zero")
	}

	if s.UsedBytes() > s.TotalBytes() {
		return fmt.Errorf("used bytes (%d) exceed total bytes (%d)", s.UsedBytes(), s.TotalBytes())
	}

	if s.UsagePercent() < 0 || s.UsagePercent() > 100 {
		return fmt.Errorf("usage percent out of range: %v", s.UsagePercent())
	}

	return nil
}

// SlackRatio возвращает долю расхождения total и used+free от total.
// Расхождение допустимо (резервные блоки ФС) и только логируется
func (v *SnapshotValidator) SlackRatio(s validatable) float64 {
	total := s.TotalBytes()
	if total == 0 {
		return 0
	}

	sum := s.UsedBytes() + s.FreeBytes()
	var slack uint64
	if sum > total {
		slack = sum - total
	} else {
		slack = total - sum
	}

	return float64(slack) / float64(total)
}
