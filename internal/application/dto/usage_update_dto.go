package dto

import (
	"time"
)

// UsageUpdateDTO представляет обновление одного тика сборщика
// Рассылается всем WebSocket клиентам; не буферизируется для опоздавших
type UsageUpdateDTO struct {
	Timestamp   time.Time         `json:"timestamp"`
	Disks       []*DiskReadingDTO `json:"disks"`
	AlertEvents []*AlertEventDTO  `json:"alert_events,omitempty"`
}

// HistoryPointDTO представляет одну точку истории использования
type HistoryPointDTO struct {
	Timestamp    time.Time `json:"timestamp"`
	UsagePercent float64   `json:"usage_percent"`
}
