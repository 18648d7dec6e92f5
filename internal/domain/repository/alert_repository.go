package repository

import (
	"context"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
)

// AlertRepository определяет интерфейс для работы с хранилищем алертов (Port)
// Реализация будет в Infrastructure слое
type AlertRepository interface {
	// Save сохраняет новый алерт
	Save(ctx context.Context, alert *entity.Alert) error

	// FindByID находит алерт по идентификатору
	// Возвращает entity.ErrAlertNotFound если алерт не существует
	FindByID(ctx context.Context, id string) (*entity.Alert, error)

	// FindRecent находит последние алерты (новые первыми по triggered_at)
	// status == nil означает любой статус
	FindRecent(ctx context.Context, limit int, status *valueobject.AlertStatus) ([]*entity.Alert, error)

	// FindOpen находит все неразрешенные алерты (active и acknowledged)
	// Используется для восстановления состояния движка при старте
	FindOpen(ctx context.Context) ([]*entity.Alert, error)

	// Acknowledge атомарно переводит алерт из active в acknowledged
	// Возвращает entity.ErrAlertNotFound или entity.ErrAlertNotActive
	Acknowledge(ctx context.Context, id string, at time.Time) (*entity.Alert, error)

	// MarkResolved атомарно закрывает открытый алерт (active или acknowledged)
	MarkResolved(ctx context.Context, id string, at time.Time) (*entity.Alert, error)
}
