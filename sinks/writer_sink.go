package sinks

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fjlanasa/gtfs-feeds/records"
)

// ResultWriter persists one result. Results without contents never reach
// it.
type ResultWriter interface {
	Write(ctx context.Context, result records.Result) error
}

// WriterSink drains its input into a ResultWriter. Write errors are logged
// and the sink keeps going.
type WriterSink struct {
	name   string
	writer ResultWriter
	in     chan any
	done   chan struct{}
}

func NewWriterSink(ctx context.Context, name string, w ResultWriter) *WriterSink {
	sink := &WriterSink{
		name:   name,
		writer: w,
		in:     make(chan any),
		done:   make(chan struct{}),
	}
	go sink.doSink(ctx)
	return sink
}

func (s *WriterSink) doSink(ctx context.Context) {
	defer close(s.done)
	defer s.closeWriter()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.in:
			if !ok {
				return
			}
			result, ok := records.AsResult(event)
			if !ok {
				slog.WarnContext(ctx, "writer sink: unsupported element", "sink", s.name, "type", fmt.Sprintf("%T", event))
				continue
			}
			if len(result.Contents) == 0 {
				slog.DebugContext(ctx, "writer sink: skipping empty result", "sink", s.name)
				continue
			}
			if err := s.writer.Write(ctx, result); err != nil {
				slog.ErrorContext(ctx, "writer sink: write failed", "sink", s.name, "error", err)
			}
		}
	}
}

func (s *WriterSink) closeWriter() {
	if c, ok := s.writer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Error("writer sink: close failed", "sink", s.name, "error", err)
		}
	}
}

func (s *WriterSink) In() chan<- any {
	return s.in
}

// Done is closed once the sink has stopped and its writer is closed.
func (s *WriterSink) Done() <-chan struct{} {
	return s.done
}
