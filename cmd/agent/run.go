package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/vshulcz/elasticreport/internal/adapters/collector/runtime"
	"github.com/vshulcz/elasticreport/internal/adapters/elastic/bulk"
	"github.com/vshulcz/elasticreport/internal/adapters/elastic/probe"
	"github.com/vshulcz/elasticreport/internal/adapters/transport/fastclient"
	"github.com/vshulcz/elasticreport/internal/adapters/transport/nethttp"
	"github.com/vshulcz/elasticreport/internal/config"
	"github.com/vshulcz/elasticreport/internal/ports"
	agentsvc "github.com/vshulcz/elasticreport/internal/services/agent"
	"github.com/vshulcz/elasticreport/internal/services/report"
)

func newTransport(cfg config.AgentConfig) ports.Transport {
	if cfg.Transport == config.TransportFastHTTP {
		return fastclient.New(cfg.HTTPTimeout)
	}
	return nethttp.New(&http.Client{Timeout: cfg.HTTPTimeout})
}

func newReporter(ctx context.Context, cfg config.AgentConfig, tr ports.Transport, logger *zap.Logger) *report.Reporter {
	return report.New(ctx,
		report.Config{Index: cfg.Index, InfoURL: cfg.InfoURL, Host: cfg.Host, Rotation: cfg.Rotation},
		probe.New(tr),
		bulk.New(cfg.BulkURL, tr, bulk.WithGzip(cfg.Compress)),
		logger,
	)
}

// run blocks until ctx is cancelled.
func run(ctx context.Context, cfg config.AgentConfig, logger *zap.Logger) error {
	tr := newTransport(cfg)
	rep := newReporter(ctx, cfg, tr, logger)

	logger.Info("agent started",
		zap.String("bulk_url", cfg.BulkURL),
		zap.String("index", cfg.Index),
		zap.String("rotation", string(cfg.Rotation)),
		zap.String("transport", cfg.Transport),
		zap.String("store_version", rep.Version().Number),
		zap.Duration("poll", cfg.PollInterval),
		zap.Duration("report", cfg.ReportInterval),
	)
	return agentsvc.New(cfg, runtime.New(), rep, logger).Run(ctx)
}
