package ports

import (
	"context"
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
)

type MetricsCollector interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop()
	Snapshot() domain.Snapshot
}
