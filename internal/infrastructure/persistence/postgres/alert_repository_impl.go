package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
)

const alertColumns = `id, hostname, mountpoint, threshold, usage_at_trigger,
		triggered_at, status, acknowledged_at, resolved_at`

// PostgresAlertRepository реализует repository.AlertRepository для PostgreSQL
type PostgresAlertRepository struct {
	db *sql.DB
}

// NewPostgresAlertRepository создает новый PostgreSQL repository
func NewPostgresAlertRepository(db *sql.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{
		db: db,
	}
}

// Save сохраняет новый алерт
func (r *PostgresAlertRepository) Save(ctx context.Context, alert *entity.Alert) error {
	model := AlertToDBModel(alert)

	query := `
		INSERT INTO alerts (id, hostname, mountpoint, threshold, usage_at_trigger,
			triggered_at, status, acknowledged_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.Hostname,
		model.Mountpoint,
		model.Threshold,
		model.UsageAtTrigger,
		model.TriggeredAt,
		model.Status,
		model.AcknowledgedAt,
		model.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// FindByID находит алерт по идентификатору
func (r *PostgresAlertRepository) FindByID(ctx context.Context, id string) (*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	model, err := ScanAlertRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}

	return AlertToEntity(model)
}

// FindRecent находит последние алерты (новые первыми), опционально по статусу
func (r *PostgresAlertRepository) FindRecent(
	ctx context.Context,
	limit int,
	status *valueobject.AlertStatus,
) ([]*entity.Alert, error) {
	var rows *sql.Rows
	var err error

	if status != nil {
		query := `
			SELECT ` + alertColumns + `
			FROM alerts
			WHERE status = $1
			ORDER BY triggered_at DESC
			LIMIT $2
		`
		rows, err = r.db.QueryContext(ctx, query, status.String(), limit)
	} else {
		query := `
			SELECT ` + alertColumns + `
			FROM alerts
			ORDER BY triggered_at DESC
			LIMIT $1
		`
		rows, err = r.db.QueryContext(ctx, query, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return r.scanAlerts(rows)
}

// FindOpen находит все неразрешенные алерты (active и acknowledged)
func (r *PostgresAlertRepository) FindOpen(ctx context.Context) ([]*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE status IN ('active', 'acknowledged')
		ORDER BY triggered_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open alerts: %w", err)
	}
	defer rows.Close()

	return r.scanAlerts(rows)
}

// Acknowledge атомарно переводит алерт из active в acknowledged.
// Conditional UPDATE исключает гонку с параллельным разрешением:
// переход выполняется только если алерт все еще active
func (r *PostgresAlertRepository) Acknowledge(ctx context.Context, id string, at time.Time) (*entity.Alert, error) {
	query := `
		UPDATE alerts
		SET status = 'acknowledged', acknowledged_at = $2
		WHERE id = $1 AND status = 'active'
		RETURNING ` + alertColumns + `
	`

	row := r.db.QueryRowContext(ctx, query, id, at)
	model, err := ScanAlertRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// Либо алерта нет, либо он уже не active
			return nil, r.classifyMissed(ctx, id)
		}
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	return AlertToEntity(model)
}

// MarkResolved атомарно закрывает открытый алерт (active или acknowledged)
func (r *PostgresAlertRepository) MarkResolved(ctx context.Context, id string, at time.Time) (*entity.Alert, error) {
	query := `
		UPDATE alerts
		SET status = 'resolved', resolved_at = $2
		WHERE id = $1 AND status IN ('active', 'acknowledged')
		RETURNING ` + alertColumns + `
	`

	row := r.db.QueryRowContext(ctx, query, id, at)
	model, err := ScanAlertRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, r.classifyMissed(ctx, id)
		}
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}

	return AlertToEntity(model)
}

// classifyMissed различает "алерт не существует" и "алерт в неподходящем статусе"
// после неуспешного conditional UPDATE
func (r *PostgresAlertRepository) classifyMissed(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check alert existence: %w", err)
	}

	if !exists {
		return entity.ErrAlertNotFound
	}
	return entity.ErrAlertNotActive
}

// scanAlerts сканирует несколько строк в слайс алертов
func (r *PostgresAlertRepository) scanAlerts(rows *sql.Rows) ([]*entity.Alert, error) {
	var alerts []*entity.Alert

	for rows.Next() {
		model, err := ScanAlertRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}

		alert, err := AlertToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert to entity: %w", err)
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return alerts, nil
}
