package sinks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
)

// ConnectorSink hands results to the connector channel that a connector
// source of the same id reads. Several pipelines may share one connector, so
// the channel is never closed here.
type ConnectorSink struct {
	in  chan any
	out chan<- any
}

func NewConnectorSink(ctx context.Context, cfg config.ConnectorConfig, connectors map[config.ID]chan any) Sink {
	sink := &ConnectorSink{in: make(chan any), out: connectors[cfg.ID]}
	go sink.doSink(ctx)
	return sink
}

func (s *ConnectorSink) doSink(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.in:
			if !ok {
				return
			}
			switch event.(type) {
			case records.Result, *records.Result, records.Record:
			default:
				slog.WarnContext(ctx, "connector sink: unsupported element", "type", fmt.Sprintf("%T", event))
				continue
			}
			select {
			case s.out <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *ConnectorSink) In() chan<- any {
	return s.in
}
