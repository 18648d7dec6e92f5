package port

import "github.com/dreschagin/duf-monitor/internal/application/dto"

// NotificationService определяет интерфейс для push-доставки обновлений (Port)
// Реализация будет в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// Broadcast отправляет обновление тика всем подключенным клиентам
	Broadcast(update *dto.UsageUpdateDTO)

	// BroadcastAlert отправляет событие алерта всем подключенным клиентам
	BroadcastAlert(event *dto.AlertEventDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
