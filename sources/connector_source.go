package sources

import (
	"context"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
	"github.com/reugn/go-streams/flow"
)

// ConnectorSource reads what another pipeline's connector sink wrote. A
// records.Result, by value or pointer, becomes a records.Record so that pipelines can be chained;
// anything else passes through unchanged.
type ConnectorSource struct {
	in  <-chan any
	out chan any
}

func NewConnectorSource(ctx context.Context, cfg config.ConnectorConfig, connectors map[config.ID]chan any) Source {
	source := &ConnectorSource{in: connectors[cfg.ID], out: make(chan any)}
	go source.init(ctx)
	return source
}

func (s *ConnectorSource) init(ctx context.Context) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.in:
			if !ok {
				return
			}
			if result, isResult := records.AsResult(event); isResult {
				event = records.NewRecord(result.Contents, result.Attributes)
			}
			select {
			case s.out <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *ConnectorSource) Via(operator streams.Flow) streams.Flow {
	flow.DoStream(s, operator)
	return operator
}

func (s *ConnectorSource) Out() <-chan any {
	return s.out
}
