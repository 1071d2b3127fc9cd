package source

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-esbulk/pkg/sink"
)

type sliceWriter struct {
	mu      sync.Mutex
	records []sink.Record
	err     error
}

func (w *sliceWriter) Write(rec sink.Record) error {
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	w.records = append(w.records, rec)
	w.mu.Unlock()
	return nil
}

func (w *sliceWriter) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.records)
}

func TestReadNDJSON(t *testing.T) {
	input := strings.Join([]string{
		`{"index":"logs","type":"event","id":"1","body":{"n":1}}`,
		``,
		`   `,
		`{"index":"logs","type":"event","id":"2","body":{"n":2}}`,
	}, "\n")

	w := &sliceWriter{}
	n, err := ReadNDJSON(context.Background(), strings.NewReader(input), w)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, w.records, 2)
	assert.Equal(t, "1", w.records[0].ID)
	assert.Equal(t, "2", w.records[1].ID)
	assert.Equal(t, map[string]any{"n": float64(2)}, w.records[1].Body)
}

func TestReadNDJSON_MalformedLine(t *testing.T) {
	input := "{\"index\":\"logs\",\"type\":\"event\",\"id\":\"1\",\"body\":{}}\n{oops\n"

	w := &sliceWriter{}
	n, err := ReadNDJSON(context.Background(), strings.NewReader(input), w)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode line 2")
	assert.Equal(t, 1, n)
}

func TestReadNDJSON_WriteError(t *testing.T) {
	w := &sliceWriter{err: sink.ErrClosed}
	n, err := ReadNDJSON(context.Background(), strings.NewReader(`{"id":"1"}`), w)

	assert.Equal(t, 0, n)
	assert.True(t, errors.Is(err, sink.ErrClosed))
}

func TestReadNDJSON_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &sliceWriter{}
	n, err := ReadNDJSON(ctx, strings.NewReader(`{"id":"1"}`), w)

	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadNDJSON_IntoWriter(t *testing.T) {
	client := &countingClient{}
	w, err := sink.New(client, sink.Config{HighWaterMark: 2})
	require.NoError(t, err)

	input := strings.Repeat(`{"index":"logs","type":"event","id":"x","body":{"n":1}}`+"\n", 5)
	n, err := ReadNDJSON(context.Background(), strings.NewReader(input), w)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 5, n)
	assert.Equal(t, []int{2, 2, 1}, client.sizes)
}

type countingClient struct {
	sizes []int
}

func (c *countingClient) Bulk(_ context.Context, actions []sink.BulkAction) (*sink.BulkResponse, error) {
	c.sizes = append(c.sizes, len(actions))
	return &sink.BulkResponse{}, nil
}

func TestReadNDJSON_CancelWhileReadBlocks(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	w := &sliceWriter{}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := ReadNDJSON(ctx, pr, w)
		done <- result{n, err}
	}()

	_, err := io.WriteString(pw, `{"index":"logs","type":"event","id":"1","body":{}}`+"\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return w.len() == 1 }, 2*time.Second, 5*time.Millisecond)

	// the reader is now blocked waiting for a second line
	cancel()

	select {
	case res := <-done:
		assert.ErrorIs(t, res.err, context.Canceled)
		assert.Equal(t, 1, res.n)
	case <-time.After(2 * time.Second):
		t.Fatal("read did not stop on cancellation")
	}
}
