package valueobject

import "errors"

// AlertStatus представляет статус алерта (Value Object)
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Validate проверяет валидность статуса алерта
func (s AlertStatus) Validate() error {
	switch s {
	case AlertActive, AlertAcknowledged, AlertResolved:
		return nil
	default:
		return errors.New("invalid alert status")
	}
}

// String возвращает строковое представление статуса
func (s AlertStatus) String() string {
	return string(s)
}

// IsOpen сообщает, что алерт еще не закрыт (active или acknowledged)
func (s AlertStatus) IsOpen() bool {
	return s == AlertActive || s == AlertAcknowledged
}

// AllAlertStatuses возвращает список всех допустимых статусов
func AllAlertStatuses() []AlertStatus {
	return []AlertStatus{AlertActive, AlertAcknowledged, AlertResolved}
}
