// Package report turns metric snapshots into index documents and ships one bulk request per pass.
package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
)

// Config describes where documents go and how they are labelled.
type Config struct {
	Index    string
	InfoURL  string
	Host     string
	Rotation Rotation
}

// Reporter builds per-pass document batches and uploads them.
// Everything it holds is immutable after New, so passes may run on different goroutines.
type Reporter struct {
	up      ports.Uploader
	log     *zap.Logger
	now     func() time.Time
	version domain.Version
	builder Builder
}

var _ ports.Reporter = (*Reporter)(nil)

// Option tweaks a Reporter.
type Option func(*Reporter)

// WithClock replaces the pass timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// New probes the store version once and prepares the document builder.
// A failed probe is logged and the reporter keeps field names unchanged.
func New(ctx context.Context, cfg Config, prober ports.VersionProber, up ports.Uploader, logger *zap.Logger, opts ...Option) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reporter{up: up, log: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	v, err := detectVersion(ctx, prober, cfg.InfoURL)
	if err != nil {
		logger.Warn("store version detection failed, keeping dotted field names",
			zap.String("info_url", cfg.InfoURL), zap.Error(err))
		v = domain.Version{}
	} else {
		logger.Info("store version detected",
			zap.String("version", v.Number), zap.Bool("replace_dots", v.ReplacesDots()))
	}
	r.version = v
	r.builder = NewBuilder(cfg.Index, cfg.Rotation, cfg.Host, v)
	return r
}

func detectVersion(ctx context.Context, prober ports.VersionProber, infoURL string) (domain.Version, error) {
	if prober == nil {
		return domain.Version{}, errors.New("no version prober configured")
	}
	return prober.Probe(ctx, infoURL)
}

// Version returns the store version the reporter was configured with.
func (r *Reporter) Version() domain.Version { return r.version }

// StartReport opens a pass; every document of the pass carries the timestamp taken here.
func (r *Reporter) StartReport(contextName string) ports.ReportPass {
	p := &Pass{r: r}
	p.batch.Begin(contextName, r.now())
	return p
}

// Pass collects the documents of one reporting pass.
type Pass struct {
	r     *Reporter
	batch Batch
}

var _ ports.ReportPass = (*Pass)(nil)

func (p *Pass) ReportGauge(name string, value float64, unit domain.Unit, tags domain.Tags) {
	if doc, ok := p.r.builder.Gauge(p.batch.Timestamp(), name, value, unit, tags); ok {
		p.batch.Append(doc)
	}
}

func (p *Pass) ReportCounter(name string, value domain.CounterValue, unit domain.Unit, tags domain.Tags) {
	p.batch.Append(p.r.builder.Counter(p.batch.Timestamp(), name, value, unit, tags))
}

func (p *Pass) ReportMeter(name string, value domain.MeterValue, unit domain.Unit, _ domain.TimeUnit, tags domain.Tags) {
	p.batch.Append(p.r.builder.Meter(p.batch.Timestamp(), name, value, unit, tags))
}

func (p *Pass) ReportHistogram(name string, value domain.HistogramValue, unit domain.Unit, tags domain.Tags) {
	p.batch.Append(p.r.builder.Histogram(p.batch.Timestamp(), name, value, unit, tags))
}

func (p *Pass) ReportTimer(name string, value domain.TimerValue, unit domain.Unit, _, _ domain.TimeUnit, tags domain.Tags) {
	p.batch.Append(p.r.builder.Timer(p.batch.Timestamp(), name, value, unit, tags))
}

// ReportHealth is accepted and dropped: health checks are not indexed.
func (p *Pass) ReportHealth(domain.HealthStatus) {}

// Documents returns the documents collected so far without draining them.
func (p *Pass) Documents() []domain.Document {
	return p.batch.docs
}

// End uploads the whole pass in one bulk request. Upload failures are returned, not retried.
func (p *Pass) End(ctx context.Context) error {
	docs := p.batch.Drain()
	if err := p.r.up.Upload(ctx, docs); err != nil {
		return err
	}
	p.r.log.Debug("report pass uploaded",
		zap.String("context", p.batch.ContextName()), zap.Int("documents", len(docs)))
	return nil
}

// Replay feeds every entry of a snapshot into the pass, kind by kind.
func Replay(p ports.ReportPass, s domain.Snapshot) {
	for _, g := range s.Gauges {
		p.ReportGauge(g.Name, g.Value, g.Unit, g.Tags)
	}
	for _, c := range s.Counters {
		p.ReportCounter(c.Name, c.Value, c.Unit, c.Tags)
	}
	for _, m := range s.Meters {
		p.ReportMeter(m.Name, m.Value, m.Unit, m.RateUnit, m.Tags)
	}
	for _, h := range s.Histograms {
		p.ReportHistogram(h.Name, h.Value, h.Unit, h.Tags)
	}
	for _, t := range s.Timers {
		p.ReportTimer(t.Name, t.Value, t.Unit, t.RateUnit, t.DurationUnit, t.Tags)
	}
	p.ReportHealth(s.Health)
}
