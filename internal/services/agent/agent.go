// Package agent implements the reporting scheduler: one report pass per interval.
package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/elasticreport/internal/config"
	"github.com/vshulcz/elasticreport/internal/ports"
	"github.com/vshulcz/elasticreport/internal/services/report"
)

// ContextName labels the passes started by the agent.
const ContextName = "agent"

const finalPassTimeout = 5 * time.Second

// Service periodically snapshots metrics and hands them to the reporter.
type Service struct {
	collector ports.MetricsCollector
	reporter  ports.Reporter
	log       *zap.Logger
	cfg       config.AgentConfig
}

// New wires together the agent configuration, collector, and reporter.
func New(cfg config.AgentConfig, c ports.MetricsCollector, r ports.Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, collector: c, reporter: r, log: logger}
}

// Run starts sampling, reports every ReportInterval and blocks until ctx is done.
// Passes never overlap. A last pass is sent on shutdown.
func (s *Service) Run(ctx context.Context) error {
	if err := s.collector.Start(ctx, s.cfg.PollInterval); err != nil {
		return err
	}
	defer s.collector.Stop()

	ticker := time.NewTicker(s.cfg.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalPassTimeout)
			_ = s.reportOnce(final)
			cancel()
			return nil
		case <-ticker.C:
			_ = s.reportOnce(ctx)
		}
	}
}

// reportOnce runs a single pass. A failed upload is logged; the next tick starts a new pass.
func (s *Service) reportOnce(ctx context.Context) error {
	snap := s.collector.Snapshot()
	if snap.Len() == 0 {
		return nil
	}

	pass := s.reporter.StartReport(ContextName)
	report.Replay(pass, snap)
	if err := pass.End(ctx); err != nil {
		s.log.Warn("report pass failed", zap.Int("metrics", snap.Len()), zap.Error(err))
		return err
	}
	s.log.Debug("report pass sent", zap.Int("metrics", snap.Len()))
	return nil
}
