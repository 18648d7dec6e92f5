package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema создает таблицы и индексы, если их еще нет.
// Выполняется один раз при старте сервиса
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS disk_snapshots (
			id UUID PRIMARY KEY,
			hostname TEXT NOT NULL,
			mountpoint TEXT NOT NULL,
			device TEXT NOT NULL DEFAULT '',
			fstype TEXT NOT NULL DEFAULT '',
			total_bytes BIGINT NOT NULL,
			used_bytes BIGINT NOT NULL,
			free_bytes BIGINT NOT NULL,
			usage_percent DOUBLE PRECISION NOT NULL,
			collected_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_disk_snapshots_mountpoint_collected_at
			ON disk_snapshots (mountpoint, collected_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_disk_snapshots_collected_at
			ON disk_snapshots (collected_at)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id UUID PRIMARY KEY,
			hostname TEXT NOT NULL,
			mountpoint TEXT NOT NULL,
			threshold DOUBLE PRECISION NOT NULL,
			usage_at_trigger DOUBLE PRECISION NOT NULL,
			triggered_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			acknowledged_at TIMESTAMPTZ,
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_triggered_at
			ON alerts (triggered_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_status
			ON alerts (status)
			WHERE status IN ('active', 'acknowledged')`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
