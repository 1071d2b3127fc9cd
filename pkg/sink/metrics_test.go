package sink

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsFlushOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	client := &fakeClient{}
	w, err := New(client, Config{HighWaterMark: 2}, WithMetrics(m))
	require.NoError(t, err)

	require.NoError(t, w.Write(recordWithID(0)))
	require.NoError(t, w.Write(recordWithID(1)))

	client.err = errors.New("Fail")
	require.NoError(t, w.Write(recordWithID(2)))
	require.NoError(t, w.Close(Record{Type: "t", ID: "x", Body: 1}))

	assert.Equal(t, float64(4), testutil.ToFloat64(m.records))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flushes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flushes.WithLabelValues(OutcomeValidation)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.flushes.WithLabelValues(OutcomeTransport)))
}

func TestMetrics_EmptyCloseCountsAsSuccessfulFlush(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	client := &fakeClient{}
	w, err := New(client, Config{}, WithMetrics(m))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 0, client.callCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flushes.WithLabelValues(OutcomeSuccess)))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: OutcomeSuccess},
		{name: "validation", err: &ValidationError{Field: "id"}, want: OutcomeValidation},
		{name: "bulk_item", err: &BulkItemError{Reasons: []string{"Forbidden"}}, want: OutcomeBulkItem},
		{name: "transport", err: errors.New("Fail"), want: OutcomeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(tt.err))
		})
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordWritten()
		m.observeFlush(3, 0, nil)
	})
}
