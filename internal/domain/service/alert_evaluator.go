package service

import (
	"sync"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
)

// TransitionKind обозначает вид перехода состояния алерта
type TransitionKind string

const (
	TransitionTriggered TransitionKind = "triggered"
	TransitionResolved  TransitionKind = "resolved"
)

// AlertTransition описывает одно срабатывание или разрешение,
// вычисленное при оценке batch'а
type AlertTransition struct {
	Kind         TransitionKind
	Mountpoint   string
	AlertID      string
	UsagePercent float64

	// Alert заполнен только для triggered: новый алерт в статусе active
	Alert *entity.Alert
}

// AlertEvaluator реализует машину состояний алертов по точкам монтирования
// (Domain Service). Состояния: none -> alerted (active/acknowledged) -> none.
// Инвариант: не более одного открытого алерта на точку монтирования
type AlertEvaluator struct {
	mu sync.Mutex

	// открытый алерт на точку монтирования: mountpoint -> alert id
	open map[string]string
}

// NewAlertEvaluator создает новый evaluator с пустым состоянием
func NewAlertEvaluator() *AlertEvaluator {
	return &AlertEvaluator{
		open: make(map[string]string),
	}
}

// Restore заполняет состояние по неразрешенным алертам из хранилища
// Вызывается один раз при старте, до первого Evaluate
func (e *AlertEvaluator) Restore(alerts []*entity.Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, alert := range alerts {
		if alert.IsOpen() {
			e.open[alert.Mountpoint()] = alert.ID()
		}
	}
}

// Evaluate оценивает batch снимков против порога и возвращает переходы.
// Срабатывание строгое: usage > threshold; ровно на пороге алерт не создается.
// Точка монтирования с открытым алертом повторно не алертится, пока
// использование не вернется к порогу или ниже (дедупликация)
func (e *AlertEvaluator) Evaluate(snapshots []*entity.DiskSnapshot, threshold float64, now time.Time) []AlertTransition {
	e.mu.Lock()
	defer e.mu.Unlock()

	var transitions []AlertTransition

	for _, snapshot := range snapshots {
		mountpoint := snapshot.Mountpoint()
		openID, isOpen := e.open[mountpoint]

		switch {
		case snapshot.ExceedsThreshold(threshold) && !isOpen:
			alert := entity.NewAlert(
				snapshot.Hostname(),
				mountpoint,
				threshold,
				snapshot.UsagePercent(),
				now,
			)
			e.open[mountpoint] = alert.ID()

			transitions = append(transitions, AlertTransition{
				Kind:         TransitionTriggered,
				Mountpoint:   mountpoint,
				AlertID:      alert.ID(),
				UsagePercent: snapshot.UsagePercent(),
				Alert:        alert,
			})

		case !snapshot.ExceedsThreshold(threshold) && isOpen:
			delete(e.open, mountpoint)

			transitions = append(transitions, AlertTransition{
				Kind:         TransitionResolved,
				Mountpoint:   mountpoint,
				AlertID:      openID,
				UsagePercent: snapshot.UsagePercent(),
			})
		}
	}

	return transitions
}

// OpenCount возвращает количество открытых алертов
func (e *AlertEvaluator) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.open)
}
