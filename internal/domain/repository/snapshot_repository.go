package repository

import (
	"context"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
)

// SnapshotRepository определяет интерфейс для работы с хранилищем снимков (Port)
// Реализация будет в Infrastructure слое
type SnapshotRepository interface {
	// SaveBatch сохраняет все снимки одного тика одной транзакцией:
	// читатели видят либо весь batch, либо ничего
	SaveBatch(ctx context.Context, snapshots []*entity.DiskSnapshot) error

	// FindCurrent находит последний снимок каждой точки монтирования
	FindCurrent(ctx context.Context) ([]*entity.DiskSnapshot, error)

	// FindHistory находит снимки точки монтирования в диапазоне,
	// отсортированные по времени по возрастанию
	FindHistory(ctx context.Context, mountpoint string, timeRange valueobject.TimeRange) ([]*entity.DiskSnapshot, error)

	// DeleteOlderThan удаляет снимки старше указанного момента,
	// возвращает количество удаленных строк
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
