// Package server exposes the admin HTTP endpoints of a running sink.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// PendingFunc reports how many records are buffered and not yet flushed.
type PendingFunc func() int

// Server serves /metrics and /healthz.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	logger *zap.Logger
}

// New builds the admin engine. pending may be nil.
func New(addr string, gatherer prometheus.Gatherer, pending PendingFunc, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	engine.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if pending != nil {
			body["pending"] = pending()
		}
		c.JSON(http.StatusOK, body)
	})

	return &Server{
		engine: engine,
		srv:    &http.Server{Addr: addr, Handler: engine, ReadHeaderTimeout: 5 * time.Second},
		logger: logger,
	}
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
