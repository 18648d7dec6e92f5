package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// GetCurrentUsageUseCase возвращает последний снимок каждой точки монтирования
type GetCurrentUsageUseCase struct {
	snapshots repository.SnapshotRepository
	logger    *logger.Logger
}

// NewGetCurrentUsageUseCase создает новый use case
func NewGetCurrentUsageUseCase(
	snapshots repository.SnapshotRepository,
	logger *logger.Logger,
) *GetCurrentUsageUseCase {
	return &GetCurrentUsageUseCase{
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute выполняет получение текущего состояния.
// Точки монтирования, пропавшие из последнего batch'а (извлеченный носитель),
// остаются видимыми со своим последним снимком
func (uc *GetCurrentUsageUseCase) Execute(ctx context.Context) ([]*dto.DiskReadingDTO, error) {
	current, err := uc.snapshots.FindCurrent(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch current usage", err)
		return nil, fmt.Errorf("failed to fetch current usage: %w", err)
	}

	uc.logger.Debug("Fetched current usage", "mountpoints", len(current))

	return dto.ToReadingDTOs(current), nil
}
