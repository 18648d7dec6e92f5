package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// AcknowledgeAlertUseCase подтверждает активный алерт
type AcknowledgeAlertUseCase struct {
	alerts repository.AlertRepository
	logger *logger.Logger
}

// NewAcknowledgeAlertUseCase создает новый use case
func NewAcknowledgeAlertUseCase(
	alerts repository.AlertRepository,
	logger *logger.Logger,
) *AcknowledgeAlertUseCase {
	return &AcknowledgeAlertUseCase{
		alerts: alerts,
		logger: logger,
	}
}

// Execute подтверждает алерт. Переход атомарен в хранилище:
// подтверждение гонки не обгоняет разрешение того же алерта.
// Доменные ошибки (ErrAlertNotFound, ErrAlertNotActive) пробрасываются
// наверх для маппинга в HTTP статусы
func (uc *AcknowledgeAlertUseCase) Execute(ctx context.Context, alertID string) (*dto.AlertDTO, error) {
	if alertID == "" {
		return nil, entity.ErrAlertNotFound
	}

	alert, err := uc.alerts.Acknowledge(ctx, alertID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, entity.ErrAlertNotFound) || errors.Is(err, entity.ErrAlertNotActive) {
			return nil, err
		}
		uc.logger.Error("Failed to acknowledge alert", err, "alert_id", alertID)
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	uc.logger.Info("Alert acknowledged", "alert_id", alertID, "mountpoint", alert.Mountpoint())

	return dto.FromAlertEntity(alert), nil
}
