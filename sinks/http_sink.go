package sinks

import (
	"context"

	"github.com/fjlanasa/gtfs-feeds/event_server"
	"github.com/fjlanasa/gtfs-feeds/records"
)

// Broadcaster is implemented by *event_server.EventServer.
type Broadcaster interface {
	Broadcast(result records.Result)
}

var _ Broadcaster = (*event_server.EventServer)(nil)

// HttpSink forwards results to the event server's SSE subscribers.
type HttpSink struct {
	server Broadcaster
	in     chan any
}

func NewHttpSink(ctx context.Context, server Broadcaster) *HttpSink {
	sink := &HttpSink{server: server, in: make(chan any)}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sink.in:
				if !ok {
					return
				}
				if result, ok := records.AsResult(event); ok {
					sink.server.Broadcast(result)
				}
			}
		}
	}()
	return sink
}

func (hs *HttpSink) In() chan<- any {
	return hs.in
}
