package port

import (
	"context"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
)

// AlertNotifier определяет интерфейс внешнего оповещения о срабатывании
// алерта (Port). Реализация — webhook в Infrastructure слое.
// Доставка fire-and-forget: ошибка логируется и не влияет на цикл сборщика
type AlertNotifier interface {
	// Notify отправляет событие срабатывания во внешнюю систему
	Notify(ctx context.Context, event *dto.AlertEventDTO) error
}
