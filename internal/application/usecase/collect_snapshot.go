package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/dto"
	"github.com/dreschagin/duf-monitor/internal/application/port"
	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/internal/domain/service"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// Доля расхождения total и used+free, выше которой пишем предупреждение
const slackWarnRatio = 0.05

const (
	subjectAlertTriggered = "disk.alerts.triggered"
	subjectAlertResolved  = "disk.alerts.resolved"
)

// CollectSnapshotUseCase координирует один тик: чтение источника, валидацию,
// сохранение batch'а, оценку алертов и рассылку обновления
type CollectSnapshotUseCase struct {
	source           port.DiskSource
	snapshots        repository.SnapshotRepository
	alerts           repository.AlertRepository
	evaluator        *service.AlertEvaluator
	validator        *service.SnapshotValidator
	notifier         port.NotificationService
	alertNotifier    port.AlertNotifier    // nil если webhook не настроен
	eventPublisher   port.EventPublisher   // nil если NATS отключен
	metricsPublisher port.MetricsPublisher // nil если CloudWatch отключен
	threshold        float64
	logger           *logger.Logger
}

// NewCollectSnapshotUseCase создает новый use case
func NewCollectSnapshotUseCase(
	source port.DiskSource,
	snapshots repository.SnapshotRepository,
	alerts repository.AlertRepository,
	evaluator *service.AlertEvaluator,
	validator *service.SnapshotValidator,
	notifier port.NotificationService,
	alertNotifier port.AlertNotifier,
	eventPublisher port.EventPublisher,
	metricsPublisher port.MetricsPublisher,
	threshold float64,
	logger *logger.Logger,
) *CollectSnapshotUseCase {
	return &CollectSnapshotUseCase{
		source:           source,
		snapshots:        snapshots,
		alerts:           alerts,
		evaluator:        evaluator,
		validator:        validator,
		notifier:         notifier,
		alertNotifier:    alertNotifier,
		eventPublisher:   eventPublisher,
		metricsPublisher: metricsPublisher,
		threshold:        threshold,
		logger:           logger,
	}
}

// Execute выполняет один тик сбора.
// Ошибка источника прерывает тик; ошибка персистентности — нет:
// живая видимость важнее одной пропущенной строки в хранилище
func (uc *CollectSnapshotUseCase) Execute(ctx context.Context) error {
	// 1. Читаем показания источника
	readings, err := uc.source.Read(ctx)
	if err != nil {
		uc.logger.Error("Failed to read disk usage", err)
		return fmt.Errorf("failed to read disk usage: %w", err)
	}

	if len(readings) == 0 {
		uc.logger.Warn("Disk source returned no mountpoints, skipping tick")
		return nil
	}

	// 2. Конвертируем в Domain Entities; метка времени одна на весь batch
	collectedAt := time.Now().UTC()
	batch := make([]*entity.DiskSnapshot, 0, len(readings))
	for _, r := range readings {
		snapshot := entity.NewDiskSnapshot(
			r.Hostname,
			r.Mountpoint,
			r.Device,
			r.Fstype,
			r.TotalBytes,
			r.UsedBytes,
			r.FreeBytes,
			collectedAt,
		)

		if err := uc.validator.Validate(snapshot); err != nil {
			uc.logger.Warn("Skipping invalid reading", "mountpoint", r.Mountpoint, "error", err.Error())
			continue
		}

		if ratio := uc.validator.SlackRatio(snapshot); ratio > slackWarnRatio {
			uc.logger.Debug("Filesystem accounting slack",
				"mountpoint", r.Mountpoint,
				"slack_ratio", fmt.Sprintf("%.3f", ratio))
		}

		batch = append(batch, snapshot)
	}

	if len(batch) == 0 {
		uc.logger.Warn("No valid readings in batch, skipping tick")
		return nil
	}

	// 3. Сохраняем batch одной транзакцией.
	// Сбой персистентности не прерывает тик: рассылаем состояние из памяти
	if err := uc.snapshots.SaveBatch(ctx, batch); err != nil {
		uc.logger.Error("Failed to persist snapshot batch, broadcasting in-memory state", err,
			"mountpoints", len(batch))
	}

	// 4. Оцениваем алерты и применяем переходы к хранилищу
	transitions := uc.evaluator.Evaluate(batch, uc.threshold, collectedAt)
	events := uc.applyTransitions(ctx, transitions, collectedAt)

	// 5. Рассылаем обновление тика через WebSocket
	update := &dto.UsageUpdateDTO{
		Timestamp:   collectedAt,
		Disks:       dto.ToReadingDTOs(batch),
		AlertEvents: events,
	}
	uc.notifier.Broadcast(update)
	uc.logger.Debug("Update broadcasted",
		"mountpoints", len(batch),
		"alert_events", len(events),
		"client_count", uc.notifier.ClientCount())

	// 6. Внешний fan-out: webhook, NATS, CloudWatch — всё изолировано от цикла
	uc.fanOutAlertEvents(events)
	uc.publishUsageMetrics(ctx, batch)

	return nil
}

// applyTransitions персистит переходы состояний и строит события для рассылки
func (uc *CollectSnapshotUseCase) applyTransitions(
	ctx context.Context,
	transitions []service.AlertTransition,
	at time.Time,
) []*dto.AlertEventDTO {
	if len(transitions) == 0 {
		return nil
	}

	events := make([]*dto.AlertEventDTO, 0, len(transitions))

	for _, tr := range transitions {
		event := &dto.AlertEventDTO{
			Type:         string(tr.Kind),
			Timestamp:    at,
			Mountpoint:   tr.Mountpoint,
			UsagePercent: tr.UsagePercent,
		}

		switch tr.Kind {
		case service.TransitionTriggered:
			if err := uc.alerts.Save(ctx, tr.Alert); err != nil {
				uc.logger.Error("Failed to persist alert", err, "mountpoint", tr.Mountpoint)
			}
			event.Alert = dto.FromAlertEntity(tr.Alert)
			uc.logger.Warn("Disk usage alert triggered",
				"mountpoint", tr.Mountpoint,
				"usage", fmt.Sprintf("%.1f%%", tr.UsagePercent),
				"threshold", uc.threshold)

		case service.TransitionResolved:
			resolved, err := uc.alerts.MarkResolved(ctx, tr.AlertID, at)
			if err != nil {
				uc.logger.Error("Failed to resolve alert", err, "alert_id", tr.AlertID)
			} else {
				event.Alert = dto.FromAlertEntity(resolved)
			}
			uc.logger.Info("Disk usage alert resolved",
				"mountpoint", tr.Mountpoint,
				"usage", fmt.Sprintf("%.1f%%", tr.UsagePercent))
		}

		events = append(events, event)
	}

	return events
}

// fanOutAlertEvents доставляет события алертов во внешние системы.
// Каждая доставка ограничена по времени и не блокирует следующий тик
func (uc *CollectSnapshotUseCase) fanOutAlertEvents(events []*dto.AlertEventDTO) {
	for _, event := range events {
		uc.notifier.BroadcastAlert(event)

		if uc.alertNotifier != nil && event.Type == string(service.TransitionTriggered) {
			go func(ev *dto.AlertEventDTO) {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := uc.alertNotifier.Notify(ctx, ev); err != nil {
					uc.logger.Warn("Webhook notification failed", "mountpoint", ev.Mountpoint, "error", err.Error())
				}
			}(event)
		}

		if uc.eventPublisher != nil {
			subject := subjectAlertTriggered
			if event.Type == string(service.TransitionResolved) {
				subject = subjectAlertResolved
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := uc.eventPublisher.PublishEvent(ctx, subject, event); err != nil {
				uc.logger.Warn("Failed to publish alert event", "subject", subject, "error", err.Error())
			}
			cancel()
		}
	}
}

// publishUsageMetrics экспортирует batch в CloudWatch (если включено)
func (uc *CollectSnapshotUseCase) publishUsageMetrics(ctx context.Context, batch []*entity.DiskSnapshot) {
	if uc.metricsPublisher == nil {
		return
	}

	if err := uc.metricsPublisher.PublishBatch(ctx, batch); err != nil {
		uc.logger.Warn("Failed to publish usage metrics", "error", err.Error())
	}
}
