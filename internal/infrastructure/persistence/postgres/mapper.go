package postgres

import (
	"database/sql"
	"time"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
	"github.com/dreschagin/duf-monitor/internal/domain/valueobject"
)

// SnapshotDBModel представляет снимок диска в БД
type SnapshotDBModel struct {
	ID           string
	Hostname     string
	Mountpoint   string
	Device       string
	Fstype       string
	TotalBytes   int64
	UsedBytes    int64
	FreeBytes    int64
	UsagePercent float64
	CollectedAt  time.Time
	CreatedAt    time.Time
}

// AlertDBModel представляет алерт в БД
type AlertDBModel struct {
	ID             string
	Hostname       string
	Mountpoint     string
	Threshold      float64
	UsageAtTrigger float64
	TriggeredAt    time.Time
	Status         string
	AcknowledgedAt sql.NullTime
	ResolvedAt     sql.NullTime
}

// SnapshotToDBModel конвертирует Domain Entity в DB Model
func SnapshotToDBModel(snapshot *entity.DiskSnapshot) *SnapshotDBModel {
	return &SnapshotDBModel{
		ID:           snapshot.ID(),
		Hostname:     snapshot.Hostname(),
		Mountpoint:   snapshot.Mountpoint(),
		Device:       snapshot.Device(),
		Fstype:       snapshot.Fstype(),
		TotalBytes:   int64(snapshot.TotalBytes()),
		UsedBytes:    int64(snapshot.UsedBytes()),
		FreeBytes:    int64(snapshot.FreeBytes()),
		UsagePercent: snapshot.UsagePercent(),
		CollectedAt:  snapshot.CollectedAt(),
		CreatedAt:    snapshot.CreatedAt(),
	}
}

// SnapshotToEntity конвертирует DB Model в Domain Entity
func SnapshotToEntity(model *SnapshotDBModel) *entity.DiskSnapshot {
	return entity.ReconstructDiskSnapshot(
		model.ID,
		model.Hostname,
		model.Mountpoint,
		model.Device,
		model.Fstype,
		uint64(model.TotalBytes),
		uint64(model.UsedBytes),
		uint64(model.FreeBytes),
		model.UsagePercent,
		model.CollectedAt,
		model.CreatedAt,
	)
}

// AlertToDBModel конвертирует Domain Entity в DB Model
func AlertToDBModel(alert *entity.Alert) *AlertDBModel {
	model := &AlertDBModel{
		ID:             alert.ID(),
		Hostname:       alert.Hostname(),
		Mountpoint:     alert.Mountpoint(),
		Threshold:      alert.Threshold(),
		UsageAtTrigger: alert.UsageAtTrigger(),
		TriggeredAt:    alert.TriggeredAt(),
		Status:         alert.Status().String(),
	}

	if ackAt := alert.AcknowledgedAt(); ackAt != nil {
		model.AcknowledgedAt = sql.NullTime{Time: *ackAt, Valid: true}
	}
	if resAt := alert.ResolvedAt(); resAt != nil {
		model.ResolvedAt = sql.NullTime{Time: *resAt, Valid: true}
	}

	return model
}

// AlertToEntity конвертирует DB Model в Domain Entity
func AlertToEntity(model *AlertDBModel) (*entity.Alert, error) {
	status := valueobject.AlertStatus(model.Status)
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var acknowledgedAt, resolvedAt *time.Time
	if model.AcknowledgedAt.Valid {
		t := model.AcknowledgedAt.Time
		acknowledgedAt = &t
	}
	if model.ResolvedAt.Valid {
		t := model.ResolvedAt.Time
		resolvedAt = &t
	}

	return entity.ReconstructAlert(
		model.ID,
		model.Hostname,
		model.Mountpoint,
		model.Threshold,
		model.UsageAtTrigger,
		model.TriggeredAt,
		status,
		acknowledgedAt,
		resolvedAt,
	), nil
}

// ScanSnapshotRow сканирует строку БД в SnapshotDBModel
func ScanSnapshotRow(row interface {
	Scan(dest ...interface{}) error
}) (*SnapshotDBModel, error) {
	var model SnapshotDBModel

	err := row.Scan(
		&model.ID,
		&model.Hostname,
		&model.Mountpoint,
		&model.Device,
		&model.Fstype,
		&model.TotalBytes,
		&model.UsedBytes,
		&model.FreeBytes,
		&model.UsagePercent,
		&model.CollectedAt,
		&model.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

// ScanAlertRow сканирует строку БД в AlertDBModel
func ScanAlertRow(row interface {
	Scan(dest ...interface{}) error
}) (*AlertDBModel, error) {
	var model AlertDBModel

	err := row.Scan(
		&model.ID,
		&model.Hostname,
		&model.Mountpoint,
		&model.Threshold,
		&model.UsageAtTrigger,
		&model.TriggeredAt,
		&model.Status,
		&model.AcknowledgedAt,
		&model.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
