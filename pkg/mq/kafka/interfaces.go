package kafka

import "github.com/huynhanx03/go-esbulk/pkg/sink"

// RecordWriter receives decoded records. *sink.Writer implements it.
type RecordWriter interface {
	Write(rec sink.Record) error
}
