package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// ListAlertsUseCase возвращает последние алерты (новые первыми)
type ListAlertsUseCase struct {
	alerts       repository.AlertRepository
	defaultLimit int
	maxLimit     int
	logger       *logger.Logger
}

// NewListAlertsUseCase создает новый use case
func NewListAlertsUseCase(
	alerts repository.AlertRepository,
	defaultLimit, maxLimit int,
	logger *logger.Logger,
) *ListAlertsUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit <= 0 {
		maxLimit = 500
	}

	return &ListAlertsUseCase{
		alerts:       alerts,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// Execute выполняет листинг. limit <= 0 — значение по умолчанию,
// status == "" — без фильтра по статусу
func (uc *ListAlertsUseCase) Execute(ctx context.Context, limit int, status string) ([]*dto.AlertDTO, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		limit = uc.maxLimit
	}

	var statusFilter *valueobject.AlertStatus
	if status != "" {
		s := valueobject.AlertStatus(status)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid alert status filter: %w", err)
		}
		statusFilter = &s
	}

	alerts, err := uc.alerts.FindRecent(ctx, limit, statusFilter)
	if err != nil {
		uc.logger.Error("Failed to list alerts", err)
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return dto.ToAlertDTOs(alerts), nil
}
