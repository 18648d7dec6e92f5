package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
	_ "github.com/lib/pq"
)

// PostgresSnapshotRepository реализует repository.SnapshotRepository для PostgreSQL
type PostgresSnapshotRepository struct {
	db *sql.DB
}

// NewPostgresSnapshotRepository создает новый PostgreSQL repository
func NewPostgresSnapshotRepository(db *sql.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{
		db: db,
	}
}

// SaveBatch сохраняет снимки одного тика одной транзакцией.
// Никакой читатель не увидит частично записанный тик
func (r *PostgresSnapshotRepository) SaveBatch(ctx context.Context, snapshots []*entity.DiskSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO disk_snapshots (id, hostname, mountpoint, device, fstype,
			total_bytes, used_bytes, free_bytes, usage_percent, collected_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, snapshot := range snapshots {
		model := SnapshotToDBModel(snapshot)

		_, err = stmt.ExecContext(ctx,
			model.ID,
			model.Hostname,
			model.Mountpoint,
			model.Device,
			model.Fstype,
			model.TotalBytes,
			model.UsedBytes,
			model.FreeBytes,
			model.UsagePercent,
			model.CollectedAt,
			model.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindCurrent находит последний снимок каждой точки монтирования
func (r *PostgresSnapshotRepository) FindCurrent(ctx context.Context) ([]*entity.DiskSnapshot, error) {
	query := `
		SELECT DISTINCT ON (mountpoint)
			id, hostname, mountpoint, device, fstype,
			total_bytes, used_bytes, free_bytes, usage_percent, collected_at, created_at
		FROM disk_snapshots
		ORDER BY mountpoint, collected_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query current snapshots: %w", err)
	}
	defer rows.Close()

	return r.scanSnapshots(rows)
}

// FindHistory находит снимки точки монтирования в диапазоне (по возрастанию времени)
func (r *PostgresSnapshotRepository) FindHistory(
	ctx context.Context,
	mountpoint string,
	timeRange valueobject.TimeRange,
) ([]*entity.DiskSnapshot, error) {
	query := `
		SELECT id, hostname, mountpoint, device, fstype,
			total_bytes, used_bytes, free_bytes, usage_percent, collected_at, created_at
		FROM disk_snapshots
		WHERE mountpoint = $1 AND collected_at BETWEEN $2 AND $3
		ORDER BY collected_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		mountpoint,
		timeRange.Start(),
		timeRange.End(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	return r.scanSnapshots(rows)
}

// DeleteOlderThan удаляет снимки старше указанного момента
func (r *PostgresSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM disk_snapshots
		WHERE collected_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rowsAffected, nil
}

// scanSnapshots сканирует несколько строк в слайс снимков
func (r *PostgresSnapshotRepository) scanSnapshots(rows *sql.Rows) ([]*entity.DiskSnapshot, error) {
	var snapshots []*entity.DiskSnapshot

	for rows.Next() {
		model, err := ScanSnapshotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		snapshots = append(snapshots, SnapshotToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return snapshots, nil
}
