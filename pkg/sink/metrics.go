package sink

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flush outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeTransport  = "transport"
	OutcomeBulkItem   = "bulk_item"
)

// Metrics holds the Prometheus collectors updated by a Writer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	records   prometheus.Counter
	flushes   *prometheus.CounterVec
	duration  prometheus.Histogram
	batchSize prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		records: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "esbulk",
			Subsystem: "sink",
			Name:      "records_written_total",
			Help:      "Records accepted by the sink.",
		}),
		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esbulk",
			Subsystem: "sink",
			Name:      "flushes_total",
			Help:      "Flushes by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "esbulk",
			Subsystem: "sink",
			Name:      "flush_duration_seconds",
			Help:      "Time spent in a flush, transport call included.",
			Buckets:   prometheus.DefBuckets,
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "esbulk",
			Subsystem: "sink",
			Name:      "flush_batch_size",
			Help:      "Records per flush.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

func (m *Metrics) recordWritten() {
	if m == nil {
		return
	}
	m.records.Inc()
}

func (m *Metrics) observeFlush(size int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.flushes.WithLabelValues(outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.batchSize.Observe(float64(size))
}

// outcome classifies a flush error into a label value.
func outcome(err error) string {
	var (
		validationErr *ValidationError
		bulkErr       *BulkItemError
	)

	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &validationErr):
		return OutcomeValidation
	case errors.As(err, &bulkErr):
		return OutcomeBulkItem
	default:
		return OutcomeTransport
	}
}
