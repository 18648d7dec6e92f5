package collector

import (
	"context"
	"fmt"
	"os"

	"github.com/dreschagin/duf-monitor/internal/application/port"
	"github.com/shirou/gopsutil/v3/disk"
)

// GopsutilSource читает использование дисков через gopsutil
// Источник по умолчанию; физические разделы без псевдо-ФС
type GopsutilSource struct {
	hostname string
}

// NewGopsutilSource создает новый источник
func NewGopsutilSource() *GopsutilSource {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &GopsutilSource{hostname: hostname}
}

// Read возвращает показания по всем смонтированным физическим разделам.
// Недоступные отдельные точки монтирования (права, отмонтирование между
// вызовами) пропускаются и не считаются ошибкой источника
func (s *GopsutilSource) Read(ctx context.Context) ([]port.DiskReading, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	readings := make([]port.DiskReading, 0, len(partitions))
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}

		readings = append(readings, port.DiskReading{
			Hostname:   s.hostname,
			Mountpoint: part.Mountpoint,
			Device:     part.Device,
			Fstype:     part.Fstype,
			TotalBytes: usage.Total,
			UsedBytes:  usage.Used,
			FreeBytes:  usage.Free,
		})
	}

	return readings, nil
}
