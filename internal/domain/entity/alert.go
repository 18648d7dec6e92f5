package entity

import (
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	"github.com/google/uuid"
)

// Alert представляет алерт о превышении порога использования диска
// Исторические записи никогда не удаляются, меняется только статус
type Alert struct {
	id             string
	hostname       string
	mountpoint     string
	threshold      float64
	usageAtTrigger float64
	triggeredAt    time.Time
	status         valueobject.AlertStatus
	acknowledgedAt *time.Time
	resolvedAt     *time.Time
}

// NewAlert создает новый алерт в статусе active (Factory Method)
func NewAlert(hostname, mountpoint string, threshold, usageAtTrigger float64, triggeredAt time.Time) *Alert {
	return &Alert{
		id:             uuid.New().String(),
		hostname:       hostname,
		mountpoint:     mountpoint,
		threshold:      threshold,
		usageAtTrigger: usageAtTrigger,
		triggeredAt:    triggeredAt,
		status:         valueobject.AlertActive,
	}
}

// ReconstructAlert восстанавливает алерт из хранилища (для Repository)
func ReconstructAlert(
	id string,
	hostname string,
	mountpoint string,
	threshold float64,
	usageAtTrigger float64,
	triggeredAt time.Time,
	status valueobject.AlertStatus,
	acknowledgedAt *time.Time,
	resolvedAt *time.Time,
) *Alert {
	return &Alert{
		id:             id,
		hostname:       hostname,
		mountpoint:     mountpoint,
		threshold:      threshold,
		usageAtTrigger: usageAtTrigger,
		triggeredAt:    triggeredAt,
		status:         status,
		acknowledgedAt: acknowledgedAt,
		resolvedAt:     resolvedAt,
	}
}

// ID возвращает идентификатор алерта
func (a *Alert) ID() string {
	return a.id
}

// Hostname возвращает имя хоста
func (a *Alert) Hostname() string {
	return a.hostname
}

// Mountpoint возвращает точку монтирования
func (a *Alert) Mountpoint() string {
	return a.mountpoint
}

// Threshold возвращает порог на момент срабатывания
func (a *Alert) Threshold() float64 {
	return a.threshold
}

// UsageAtTrigger возвращает процент использования на момент срабатывания
func (a *Alert) UsageAtTrigger() float64 {
	return a.usageAtTrigger
}

// TriggeredAt возвращает время срабатывания
func (a *Alert) TriggeredAt() time.Time {
	return a.triggeredAt
}

// Status возвращает текущий статус
func (a *Alert) Status() valueobject.AlertStatus {
	return a.status
}

// AcknowledgedAt возвращает время подтверждения (nil если не подтвержден)
func (a *Alert) AcknowledgedAt() *time.Time {
	return a.acknowledgedAt
}

// ResolvedAt возвращает время разрешения (nil если не разрешен)
func (a *Alert) ResolvedAt() *time.Time {
	return a.resolvedAt
}

// Domain Methods (переходы состояний)

// Acknowledge переводит алерт из active в acknowledged
// Повторное подтверждение и подтверждение разрешенного алерта запрещены
func (a *Alert) Acknowledge(at time.Time) error {
	if a.status != valueobject.AlertActive {
		return ErrAlertNotActive
	}

	a.status = valueobject.AlertAcknowledged
	a.acknowledgedAt = &at
	return nil
}

// Resolve закрывает алерт, когда использование вернулось к порогу или ниже
// Разрешение допустимо и из active, и из acknowledged
func (a *Alert) Resolve(at time.Time) error {
	if !a.status.IsOpen() {
		return ErrAlertNotActive
	}

	a.status = valueobject.AlertResolved
	a.resolvedAt = &at
	return nil
}

// IsOpen сообщает, что алерт не разрешен
func (a *Alert) IsOpen() bool {
	return a.status.IsOpen()
}
