package main

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-esbulk/pkg/database/elasticsearch"
	"github.com/huynhanx03/go-esbulk/pkg/logger"
	"github.com/huynhanx03/go-esbulk/pkg/server"
	"github.com/huynhanx03/go-esbulk/pkg/settings"
	"github.com/huynhanx03/go-esbulk/pkg/sink"
)

const pingTimeout = 10 * time.Second

type app struct {
	cfg      *settings.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	writer   *sink.Writer
}

// bootstrap loads configuration and wires the writer to Elasticsearch.
func bootstrap(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := settings.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build logger")
	}

	client, err := elasticsearch.New(cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := elasticsearch.Ping(pingCtx, client); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Flushes outlive the signal context so Close can still deliver the tail.
	writer, err := sink.New(
		elasticsearch.NewBulkTransport(client, cfg.Elasticsearch),
		cfg.Sink,
		sink.WithLogger(log),
		sink.WithMetrics(sink.NewMetrics(registry)),
		sink.WithContext(context.WithoutCancel(ctx)),
	)
	if err != nil {
		return nil, err
	}

	writer.Subscribe(func(err error) {
		log.Error("bulk flush failed", zap.Error(err))
	})

	log.Info("sink ready",
		zap.Strings("addresses", cfg.Elasticsearch.Addresses),
		zap.Int("high_water_mark", writer.HighWaterMark()),
	)

	return &app{cfg: cfg, logger: log, registry: registry, writer: writer}, nil
}

// run drives source until it returns, then closes the writer so the
// remaining buffer is flushed. The admin server, when configured, runs
// alongside and stops with the source.
func (a *app) run(ctx context.Context, source func(context.Context) error) error {
	defer a.logger.Sync() //nolint:errcheck

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if a.cfg.Server.Addr != "" {
		if a.cfg.Server.Mode != "" {
			gin.SetMode(a.cfg.Server.Mode)
		}
		srv := server.New(a.cfg.Server.Addr, a.registry, a.writer.Len, a.logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	g.Go(func() error {
		defer stop()

		err := source(gctx)
		if cerr := a.writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err := g.Wait()
	a.logger.Info("sink closed", zap.Error(err))
	return err
}
