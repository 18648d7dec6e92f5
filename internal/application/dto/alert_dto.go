package dto

import (
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
)

// AlertDTO представляет алерт для API и WebSocket клиентов
type AlertDTO struct {
	ID             string     `json:"id"`
	Hostname       string     `json:"hostname"`
	Mountpoint     string     `json:"mountpoint"`
	Threshold      float64    `json:"threshold"`
	UsageAtTrigger float64    `json:"usage_at_trigger"`
	TriggeredAt    time.Time  `json:"triggered_at"`
	Status         string     `json:"status"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// FromAlertEntity конвертирует Domain Entity в DTO
func FromAlertEntity(a *entity.Alert) *AlertDTO {
	return &AlertDTO{
		ID:             a.ID(),
		Hostname:       a.Hostname(),
		Mountpoint:     a.Mountpoint(),
		Threshold:      a.Threshold(),
		UsageAtTrigger: a.UsageAtTrigger(),
		TriggeredAt:    a.TriggeredAt(),
		Status:         a.Status().String(),
		AcknowledgedAt: a.AcknowledgedAt(),
		ResolvedAt:     a.ResolvedAt(),
	}
}

// ToAlertDTOs конвертирует слайс алертов в слайс DTO
func ToAlertDTOs(alerts []*entity.Alert) []*AlertDTO {
	dtos := make([]*AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		dtos = append(dtos, FromAlertEntity(a))
	}
	return dtos
}

// AlertEventDTO представляет переход состояния алерта в рамках одного тика
type AlertEventDTO struct {
	Type         string    `json:"type"` // "triggered" или "resolved"
	Timestamp    time.Time `json:"timestamp"`
	Mountpoint   string    `json:"mountpoint"`
	UsagePercent float64   `json:"usage_percent"`
	Alert        *AlertDTO `json:"alert,omitempty"`
}
