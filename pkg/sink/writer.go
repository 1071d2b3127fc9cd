package sink

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BulkClient persists a batch of actions in one round trip.
//
// A non-nil error means the call itself failed. A returned response may
// still report per-item failures through its Errors flag.
type BulkClient interface {
	Bulk(ctx context.Context, actions []BulkAction) (*BulkResponse, error)
}

// Writer buffers records and flushes them to a BulkClient.
//
// Behavior:
//   - Write appends to the current buffer and returns at once while the buffer
//     holds fewer than HighWaterMark records.
//   - The write that fills the buffer detaches it and returns only after the
//     flush of that buffer completed.
//   - Close flushes whatever is left, even nothing, and returns after it.
//   - One flush runs at a time and flushes run in admission order. Writes made
//     during a flush go to a fresh buffer.
//   - Flush failures are never returned from Write or Close. They are handed to
//     the observers registered with Subscribe.
type Writer struct {
	client  BulkClient
	hwm     int
	ctx     context.Context
	logger  *zap.Logger
	metrics *Metrics

	mu       sync.Mutex
	buf      []Record
	lastDone <-chan struct{}
	closed   bool

	obsMu     sync.RWMutex
	observers []observer
	nextObsID uint64
}

type observer struct {
	id uint64
	fn func(error)
}

// flushTicket is a detached buffer waiting for its turn to be flushed.
type flushTicket struct {
	records []Record
	wait    <-chan struct{}
	done    chan struct{}
}

// New creates a Writer flushing into client.
func New(client BulkClient, cfg Config, opts ...Option) (*Writer, error) {
	if client == nil {
		return nil, ErrClientRequired
	}

	if cfg.HighWaterMark <= 0 {
		cfg.HighWaterMark = DefaultHighWaterMark
	}

	w := &Writer{
		client: client,
		hwm:    cfg.HighWaterMark,
		ctx:    context.Background(),
		logger: zap.NewNop(),
		buf:    make([]Record, 0, cfg.HighWaterMark),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// HighWaterMark returns the effective buffer capacity.
func (w *Writer) HighWaterMark() int {
	return w.hwm
}

// Len returns the number of records waiting in the current buffer.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// Write submits a record. It returns ErrClosed after Close and nil otherwise.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}

	w.buf = append(w.buf, rec)
	w.metrics.recordWritten()

	if len(w.buf) < w.hwm {
		w.mu.Unlock()
		return nil
	}

	t := w.detach()
	w.mu.Unlock()

	w.run(t)
	return nil
}

// Close appends the optional final records, flushes the buffer and waits for
// every pending flush. Calling Close twice returns ErrClosed.
func (w *Writer) Close(final ...Record) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true

	for range final {
		w.metrics.recordWritten()
	}
	w.buf = append(w.buf, final...)

	t := w.detach()
	w.mu.Unlock()

	w.run(t)
	return nil
}

// Subscribe registers fn to receive every flush failure. Observers run on the
// flushing goroutine before the triggering Write or Close returns. The next
// flush may already be running by then, so observers must be safe for
// concurrent use; they may call Write.
func (w *Writer) Subscribe(fn func(error)) (unsubscribe func()) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()

	w.nextObsID++
	id := w.nextObsID
	w.observers = append(w.observers, observer{id: id, fn: fn})

	return func() {
		w.obsMu.Lock()
		defer w.obsMu.Unlock()

		for i, o := range w.observers {
			if o.id == id {
				w.observers = append(w.observers[:i:i], w.observers[i+1:]...)
				return
			}
		}
	}
}

// detach swaps the current buffer for a fresh one. Must be called with mu held.
func (w *Writer) detach() *flushTicket {
	t := &flushTicket{
		records: w.buf,
		wait:    w.lastDone,
		done:    make(chan struct{}),
	}
	w.lastDone = t.done
	w.buf = make([]Record, 0, w.hwm)
	return t
}

// run waits for the previous flush, flushes the ticket and releases the
// next one before notifying observers.
func (w *Writer) run(t *flushTicket) {
	if t.wait != nil {
		<-t.wait
	}

	err := w.flush(t.records)
	close(t.done)

	if err != nil {
		w.report(err)
	}
}

func (w *Writer) report(err error) {
	w.logger.Debug("bulk flush failed", zap.Error(err))

	w.obsMu.RLock()
	observers := make([]observer, len(w.observers))
	copy(observers, w.observers)
	w.obsMu.RUnlock()

	for _, o := range observers {
		o.fn(err)
	}
}
