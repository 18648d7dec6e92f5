package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/application/port"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// GetUsageHistoryUseCase возвращает историю использования точки монтирования
// с опциональным кешированием (cache-aside)
type GetUsageHistoryUseCase struct {
	snapshots repository.SnapshotRepository
	cache     port.Cache // nil если Redis отключен
	maxHours  int
	logger    *logger.Logger
}

// NewGetUsageHistoryUseCase создает новый use case
func NewGetUsageHistoryUseCase(
	snapshots repository.SnapshotRepository,
	cache port.Cache,
	maxHours int,
	logger *logger.Logger,
) *GetUsageHistoryUseCase {
	if maxHours <= 0 {
		maxHours = 8760
	}

	return &GetUsageHistoryUseCase{
		snapshots: snapshots,
		cache:     cache,
		maxHours:  maxHours,
		logger:    logger,
	}
}

// Execute возвращает точки истории по возрастанию времени.
// Неизвестная точка монтирования или пустое окно — пустой слайс, не ошибка
func (uc *GetUsageHistoryUseCase) Execute(ctx context.Context, mountpoint string, hours int) ([]*dto.HistoryPointDTO, error) {
	if mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}

	if hours <= 0 {
		hours = 24
	}
	if hours > uc.maxHours {
		hours = uc.maxHours
	}

	if uc.cache == nil {
		return uc.executeWithoutCache(ctx, mountpoint, hours)
	}

	cacheKey := historyCacheKey(mountpoint, hours)

	var cached []*dto.HistoryPointDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
		uc.logger.Debug("Cache hit for usage history", "mountpoint", mountpoint, "points", len(cached))
		return cached, nil
	}

	uc.logger.Debug("Cache miss for usage history, fetching from DB", "mountpoint", mountpoint)

	points, err := uc.executeWithoutCache(ctx, mountpoint, hours)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш асинхронно, не блокируем ответ
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, points); err != nil {
			uc.logger.Warn("Failed to cache usage history", "error", err.Error())
		}
	}()

	return points, nil
}

func (uc *GetUsageHistoryUseCase) executeWithoutCache(ctx context.Context, mountpoint string, hours int) ([]*dto.HistoryPointDTO, error) {
	timeRange, err := valueobject.NewTimeRangeFromDuration(time.Duration(hours) * time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid history window: %w", err)
	}

	snapshots, err := uc.snapshots.FindHistory(ctx, mountpoint, timeRange)
	if err != nil {
		uc.logger.Error("Failed to fetch usage history", err, "mountpoint", mountpoint)
		return nil, fmt.Errorf("failed to fetch usage history: %w", err)
	}

	points := make([]*dto.HistoryPointDTO, 0, len(snapshots))
	for _, s := range snapshots {
		points = append(points, &dto.HistoryPointDTO{
			Timestamp:    s.CollectedAt(),
			UsagePercent: s.UsagePercent(),
		})
	}

	return points, nil
}

// historyCacheKey строит ключ кеша с минутным bucket'ом для лучшего hit rate
func historyCacheKey(mountpoint string, hours int) string {
	bucket := time.Now().Truncate(time.Minute).Unix()
	return fmt.Sprintf("usage:history:%s:%dh:%d", mountpoint, hours, bucket)
}
