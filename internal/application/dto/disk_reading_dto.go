package dto

import (
	"github.com/dreschagin/duf-monitor/internal/domain/entity"
)

// DiskReadingDTO представляет показание по одной точке монтирования
// Используется в /api/current и в WebSocket обновлениях
type DiskReadingDTO struct {
	Hostname     string  `json:"hostname"`
	Mountpoint   string  `json:"mountpoint"`
	Device       string  `json:"device"`
	Fstype       string  `json:"fstype"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// FromSnapshotEntity конвертирует Domain Entity в DTO
func FromSnapshotEntity(s *entity.DiskSnapshot) *DiskReadingDTO {
	return &DiskReadingDTO{
		Hostname:     s.Hostname(),
		Mountpoint:   s.Mountpoint(),
		Device:       s.Device(),
		Fstype:       s.Fstype(),
		TotalBytes:   s.TotalBytes(),
		UsedBytes:    s.UsedBytes(),
		FreeBytes:    s.FreeBytes(),
		UsagePercent: s.UsagePercent(),
	}
}

// ToReadingDTOs конвертирует слайс снимков в слайс DTO
func ToReadingDTOs(snapshots []*entity.DiskSnapshot) []*DiskReadingDTO {
	dtos := make([]*DiskReadingDTO, 0, len(snapshots))
	for _, s := range snapshots {
		dtos = append(dtos, FromSnapshotEntity(s))
	}
	return dtos
}
