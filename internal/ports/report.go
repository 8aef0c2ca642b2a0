package ports

import (
	"context"

	"github.com/vshulcz/elasticreport/internal/domain"
)

// ReportPass receives every metric of one reporting pass.
// A pass is used by a single goroutine and ends with End.
type ReportPass interface {
	ReportGauge(name string, value float64, unit domain.Unit, tags domain.Tags)
	ReportCounter(name string, value domain.CounterValue, unit domain.Unit, tags domain.Tags)
	ReportMeter(name string, value domain.MeterValue, unit domain.Unit, rateUnit domain.TimeUnit, tags domain.Tags)
	ReportHistogram(name string, value domain.HistogramValue, unit domain.Unit, tags domain.Tags)
	ReportTimer(name string, value domain.TimerValue, unit domain.Unit, rateUnit, durationUnit domain.TimeUnit, tags domain.Tags)
	ReportHealth(status domain.HealthStatus)
	End(ctx context.Context) error
}

type Reporter interface {
	StartReport(contextName string) ReportPass
}

type VersionProber interface {
	Probe(ctx context.Context, infoURL string) (domain.Version, error)
}

type Uploader interface {
	Upload(ctx context.Context, docs []domain.Document) error
}
