package port

import "context"

// DiskReading представляет сырое показание источника по одной точке монтирования
// Используется для передачи данных между Infrastructure и Application слоями
type DiskReading struct {
	Hostname   string
	Mountpoint string
	Device     string
	Fstype     string
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
}

// DiskSource определяет интерфейс источника данных об использовании дисков (Port)
// Реализации: gopsutil и обертка над duf --json (Infrastructure слой)
type DiskSource interface {
	// Read возвращает текущие показания по всем точкам монтирования
	Read(ctx context.Context) ([]DiskReading, error)
}
