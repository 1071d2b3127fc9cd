package sink

import (
	"context"

	"go.uber.org/zap"
)

// DefaultHighWaterMark is the buffer capacity used when none is configured.
const DefaultHighWaterMark = 64

// Config holds configuration for the Writer.
type Config struct {
	// HighWaterMark is the number of buffered records that triggers a flush.
	// Values <= 0 fall back to DefaultHighWaterMark.
	HighWaterMark int `mapstructure:"high_water_mark"`
}

// Option customizes a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for flush diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics records writer activity into m.
func WithMetrics(m *Metrics) Option {
	return func(w *Writer) {
		w.metrics = m
	}
}

// WithContext sets the context handed to the bulk client on every flush.
// The writer never cancels it; deadlines are up to the client.
func WithContext(ctx context.Context) Option {
	return func(w *Writer) {
		if ctx != nil {
			w.ctx = ctx
		}
	}
}
