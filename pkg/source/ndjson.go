// Package source feeds records into a sink from line-delimited JSON streams.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-esbulk/pkg/sink"
)

// maxLineSize bounds a single encoded record.
const maxLineSize = 16 << 20

// RecordWriter receives decoded records. *sink.Writer implements it.
type RecordWriter interface {
	Write(rec sink.Record) error
}

// ReadNDJSON decodes one record per line from r and writes each into w, in
// order. Blank lines are skipped. It stops at EOF, at the first malformed line,
// at the first write error, or when ctx is done, and returns the number of
// records written.
//
// Lines are read on a separate goroutine; cancellation returns without waiting for
// the next line. If ctx ends while that goroutine is blocked in r.Read, it
// exits once the read returns.
func ReadNDJSON(ctx context.Context, r io.Reader, w RecordWriter) (int, error) {
	scanCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines := scanLines(scanCtx, r)

	written := 0
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		var l line
		var ok bool
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case l, ok = <-lines:
		}
		if !ok {
			return written, nil
		}
		if l.err != nil {
			return written, errors.Wrap(l.err, "read input")
		}

		raw := bytes.TrimSpace(l.data)
		if len(raw) == 0 {
			continue
		}

		var rec sink.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return written, errors.Wrapf(err, "decode line %d", l.num)
		}

		if err := w.Write(rec); err != nil {
			return written, errors.Wrapf(err, "write line %d", l.num)
		}
		written++
	}
}

type line struct {
	num  int
	data []byte
	err  error
}

// scanLines streams the lines of r until EOF, a read error or ctx is done.
func scanLines(ctx context.Context, r io.Reader) <-chan line {
	out := make(chan line)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		send := func(l line) bool {
			select {
			case out <- l:
				return true
			case <-ctx.Done():
				return false
			}
		}

		num := 0
		for scanner.Scan() {
			num++
			data := append([]byte(nil), scanner.Bytes()...)
			if !send(line{num: num, data: data}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(line{err: err})
		}
	}()

	return out
}
