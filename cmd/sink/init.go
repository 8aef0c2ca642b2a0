package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	auditfile "github.com/vshulcz/elasticreport/internal/adapters/audit/file"
	remoteaudit "github.com/vshulcz/elasticreport/internal/adapters/audit/remote"
	"github.com/vshulcz/elasticreport/internal/adapters/docstore/memory"
	"github.com/vshulcz/elasticreport/internal/adapters/docstore/postgres"
	"github.com/vshulcz/elasticreport/internal/adapters/elastic/probe"
	"github.com/vshulcz/elasticreport/internal/adapters/http/ginsink"
	"github.com/vshulcz/elasticreport/internal/adapters/http/ginsink/middlewares"
	"github.com/vshulcz/elasticreport/internal/adapters/transport/nethttp"
	"github.com/vshulcz/elasticreport/internal/config"
	"github.com/vshulcz/elasticreport/internal/misc"
	"github.com/vshulcz/elasticreport/internal/ports"
	"github.com/vshulcz/elasticreport/internal/services/audit"
	"github.com/vshulcz/elasticreport/internal/services/sink"
)

// buildStore prefers Postgres and falls back to memory when it cannot be reached.
func buildStore(ctx context.Context, cfg config.SinkConfig, logger *zap.Logger) ports.DocumentStore {
	if cfg.DSN != "" {
		db, err := sql.Open("postgres", cfg.DSN)
		if err == nil {
			op := func() error {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
				return postgres.Migrate(db)
			}
			if err = postgres.RetryPolicy(misc.DefaultBackoff).Do(ctx, op); err == nil {
				logger.Info("db connected & migrated")
				return postgres.New(db)
			}
			_ = db.Close()
		}
		logger.Warn("postgres init failed, falling back to memory", zap.Error(err))
	}
	return memory.New()
}

const auditTimeout = 5 * time.Second

func buildAudit(cfg config.SinkConfig) (*audit.Subject, error) {
	subj := audit.NewSubject()
	if cfg.AuditFile != "" {
		subj.Attach(auditfile.New(cfg.AuditFile))
	}
	if cfg.AuditURL != "" {
		cli, err := remoteaudit.New(cfg.AuditURL, nethttp.New(&http.Client{Timeout: auditTimeout}))
		if err != nil {
			return nil, err
		}
		subj.Attach(cli)
	}
	return subj, nil
}

func newServer(ctx context.Context, cfg config.SinkConfig, logger *zap.Logger) (http.Handler, error) {
	version, err := probe.ParseVersion(cfg.Version)
	if err != nil {
		return nil, err
	}
	subj, err := buildAudit(cfg)
	if err != nil {
		return nil, err
	}
	svc := sink.New(buildStore(ctx, cfg, logger), version, sink.WithAudit(subj), sink.WithLogger(logger))
	h := ginsink.NewHandler(svc, misc.Hostname(), logger)
	return ginsink.NewRouter(h,
		middlewares.ZapLogger(logger),
		middlewares.GzipRequest(),
	), nil
}
