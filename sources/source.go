package sources

import (
	"context"
	"fmt"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/reugn/go-streams"
)

type Source interface {
	streams.Source
}

func NewSource(ctx context.Context, cfg config.SourceConfig, connectors map[config.ID]chan any) (Source, error) {
	switch cfg.Type {
	case config.SourceTypeTimer:
		return NewTimerSource(ctx, cfg.Timer)
	case config.SourceTypeHTTP:
		return NewHTTPSource(ctx, cfg.HTTP)
	case config.SourceTypeConnector:
		if _, ok := connectors[cfg.Connector.ID]; !ok {
			return nil, fmt.Errorf("source %q: unknown connector %q", cfg.ID, cfg.Connector.ID)
		}
		return NewConnectorSource(ctx, cfg.Connector, connectors), nil
	}
	return nil, fmt.Errorf("source %q: invalid type %q", cfg.ID, cfg.Type)
}
