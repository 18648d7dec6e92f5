package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiskSnapshot представляет замер использования одной точки монтирования
// на момент одного тика сборщика (Aggregate Root)
// Иммутабелен после записи: хранилище только добавляет и удаляет по retention
type DiskSnapshot struct {
	id           string
	hostname     string
	mountpoint   string
	device       string
	fstype       string
	totalBytes   uint64
	usedBytes    uint64
	freeBytes    uint64
	usagePercent float64
	collectedAt  time.Time
	createdAt    time.Time
}

// NewDiskSnapshot создает новый снимок (Factory Method)
// usagePercent вычисляется как used/total*100 и зажимается в [0,100];
// расхождение total != used+free допустимо (учет резервных блоков ФС)
func NewDiskSnapshot(
	hostname string,
	mountpoint string,
	device string,
	fstype string,
	totalBytes uint64,
	usedBytes uint64,
	freeBytes uint64,
	collectedAt time.Time,
) *DiskSnapshot {
	return &DiskSnapshot{
		id:           uuid.New().String(),
		hostname:     hostname,
		mountpoint:   mountpoint,
		device:       device,
		fstype:       fstype,
		totalBytes:   totalBytes,
		usedBytes:    usedBytes,
		freeBytes:    freeBytes,
		usagePercent: derivePercent(usedBytes, totalBytes),
		collectedAt:  collectedAt,
		createdAt:    time.Now(),
	}
}

// ReconstructDiskSnapshot восстанавливает снимок из хранилища (для Repository)
func ReconstructDiskSnapshot(
	id string,
	hostname string,
	mountpoint string,
	device string,
	fstype string,
	totalBytes uint64,
	usedBytes uint64,
	freeBytes uint64,
	usagePercent float64,
	collectedAt, createdAt time.Time,
) *DiskSnapshot {
	return &DiskSnapshot{
		id:           id,
		hostname:     hostname,
		mountpoint:   mountpoint,
		device:       device,
		fstype:       fstype,
		totalBytes:   totalBytes,
		usedBytes:    usedBytes,
		freeBytes:    freeBytes,
		usagePercent: usagePercent,
		collectedAt:  collectedAt,
		createdAt:    createdAt,
	}
}

func derivePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(used) / float64(total) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ID возвращает идентификатор снимка
func (s *DiskSnapshot) ID() string {
	return s.id
}

// Hostname возвращает имя хоста
func (s *DiskSnapshot) Hostname() string {
	return s.hostname
}

// Mountpoint возвращает точку монтирования
func (s *DiskSnapshot) Mountpoint() string {
	return s.mountpoint
}

// Device возвращает устройство
func (s *DiskSnapshot) Device() string {
	return s.device
}

// Fstype возвращает тип файловой системы
func (s *DiskSnapshot) Fstype() string {
	return s.fstype
}

// TotalBytes возвращает общий размер в байтах
func (s *DiskSnapshot) TotalBytes() uint64 {
	return s.totalBytes
}

// UsedBytes возвращает занятый размер в байтах
func (s *DiskSnapshot) UsedBytes() uint64 {
	return s.usedBytes
}

// FreeBytes возвращает свободный размер в байтах
func (s *DiskSnapshot) FreeBytes() uint64 {
	return s.freeBytes
}

// UsagePercent возвращает процент использования [0,100]
func (s *DiskSnapshot) UsagePercent() float64 {
	return s.usagePercent
}

// CollectedAt возвращает метку времени тика сборщика
func (s *DiskSnapshot) CollectedAt() time.Time {
	return s.collectedAt
}

// CreatedAt возвращает время создания записи
func (s *DiskSnapshot) CreatedAt() time.Time {
	return s.createdAt
}

// Domain Methods (бизнес-логика)

// ExceedsThreshold проверяет, превышает ли использование порог (строго больше)
func (s *DiskSnapshot) ExceedsThreshold(threshold float64) bool {
	return s.usagePercent > threshold
}

// AccountingSlackBytes возвращает расхождение между total и used+free
// Информационная величина, не ошибка валидации
func (s *DiskSnapshot) AccountingSlackBytes() uint64 {
	sum := s.usedBytes + s.freeBytes
	if sum > s.totalBytes {
		return sum - s.totalBytes
	}
	return s.totalBytes - sum
}
