package port

import (
	"context"

	"github.com/dreschagin/duf-monitor/internal/domain/entity"
)

// MetricsPublisher defines the interface for exporting usage metrics
// to an external monitoring system (CloudWatch)
type MetricsPublisher interface {
	// PublishBatch buffers usage snapshots for batched publication
	PublishBatch(ctx context.Context, snapshots []*entity.DiskSnapshot) error

	// Flush forces immediate publication of buffered metrics
	Flush(ctx context.Context) error

	// Close stops background publishing and flushes the buffer
	Close(ctx context.Context) error
}
