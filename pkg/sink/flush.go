package sink

import (
	"time"

	"go.uber.org/zap"
)

// flush sends one detached buffer and interprets the outcome.
func (w *Writer) flush(records []Record) error {
	start := time.Now()
	err := w.translate(records)
	elapsed := time.Since(start)

	w.metrics.observeFlush(len(records), elapsed, err)
	w.logger.Debug("bulk flush finished",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", elapsed),
		zap.Bool("ok", err == nil),
	)

	return err
}

func (w *Writer) translate(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	actions, err := buildActions(records)
	if err != nil {
		return err
	}

	res, err := w.client.Bulk(w.ctx, actions)
	if err != nil {
		// Transport errors are surfaced exactly as returned.
		return err
	}

	return interpret(res)
}

// buildActions validates records in order and converts them into bulk actions.
// The first invalid record aborts the batch.
func buildActions(records []Record) ([]BulkAction, error) {
	actions := make([]BulkAction, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		actions = append(actions, rec.action())
	}
	return actions, nil
}

// ReasonUnspecified is reported when a response flags errors but no item
// explains them.
const ReasonUnspecified = "bulk request reported errors"

// interpret turns a bulk response into nil or a *BulkItemError.
func interpret(res *BulkResponse) error {
	if res == nil || !res.Errors {
		return nil
	}

	var reasons []string
	seen := make(map[string]struct{})

	for _, item := range res.Items {
		_, result, ok := item.Result()
		if !ok || !result.Failed() {
			continue
		}

		reason := result.Reason()
		if _, dup := seen[reason]; dup {
			continue
		}
		seen[reason] = struct{}{}
		reasons = append(reasons, reason)
	}

	if len(reasons) == 0 {
		reasons = []string{ReasonUnspecified}
	}
	return &BulkItemError{Reasons: reasons}
}
