package collector

import (
	"context"
	"time"

	"github.com/dreschagin/duf-monitor/internal/application/usecase"
	"github.com/dreschagin/duf-monitor/internal/domain/repository"
	"github.com/dreschagin/duf-monitor/pkg/logger"
)

// Runner управляет циклом сбора: единственный писатель в хранилище снимков
// и единственный драйвер оценки алертов. Тики планируются относительно
// предыдущего тика; дрейф не корректируется
type Runner struct {
	collect        *usecase.CollectSnapshotUseCase
	snapshots      repository.SnapshotRepository
	pollInterval   time.Duration
	retentionAge   time.Duration
	retentionEvery time.Duration
	logger         *logger.Logger
}

// NewRunner создает новый Runner
func NewRunner(
	collect *usecase.CollectSnapshotUseCase,
	snapshots repository.SnapshotRepository,
	pollInterval time.Duration,
	retentionAge time.Duration,
	retentionEvery time.Duration,
	logger *logger.Logger,
) *Runner {
	return &Runner{
		collect:        collect,
		snapshots:      snapshots,
		pollInterval:   pollInterval,
		retentionAge:   retentionAge,
		retentionEvery: retentionEvery,
		logger:         logger,
	}
}

// Run запускает цикл сбора и блокируется до отмены контекста.
// Первый снимок снимается сразу при старте, до первого тика таймера
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("Collector started",
		"poll_interval", r.pollInterval.String(),
		"retention_max_age", r.retentionAge.String())

	if err := r.collect.Execute(ctx); err != nil {
		r.logger.Error("Initial collection failed", err)
	}

	pollTicker := time.NewTicker(r.pollInterval)
	defer pollTicker.Stop()

	retentionTicker := time.NewTicker(r.retentionEvery)
	defer retentionTicker.Stop()

	for {
		select {
		case <-pollTicker.C:
			// Ошибки тика локализованы: следующий тик придет по расписанию
			if err := r.collect.Execute(ctx); err != nil {
				r.logger.Error("Collection tick failed", err)
			}

		case <-retentionTicker.C:
			// Retention вне критического пути рассылки
			go r.prune()

		case <-ctx.Done():
			r.logger.Info("Collector stopped")
			return
		}
	}
}

// prune удаляет снимки старше retention-окна (best-effort)
func (r *Runner) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-r.retentionAge)
	deleted, err := r.snapshots.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Warn("Retention pruning failed", "error", err.Error())
		return
	}

	if deleted > 0 {
		r.logger.Info("Retention pruning completed", "deleted_rows", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
}
