package sinks

import (
	"context"
	"fmt"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/reugn/go-streams"
)

type Sink interface {
	streams.Sink
}

func NewSink(ctx context.Context, cfg config.SinkConfig, connectors map[config.ID]chan any) (Sink, error) {
	switch cfg.Type {
	case config.SinkTypeConsole:
		return NewLogSink(ctx, cfg.Console), nil
	case config.SinkTypeConnector:
		if _, ok := connectors[cfg.Connector.ID]; !ok {
			return nil, fmt.Errorf("sink %q: unknown connector %q", cfg.ID, cfg.Connector.ID)
		}
		return NewConnectorSink(ctx, cfg.Connector, connectors), nil
	case config.SinkTypeFileSystem:
		w, err := NewFileSystemWriter(cfg.FileSystem)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		return NewWriterSink(ctx, string(cfg.ID), w), nil
	case config.SinkTypeRedis:
		w, err := NewRedisWriter(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		return NewWriterSink(ctx, string(cfg.ID), w), nil
	case config.SinkTypeBucket:
		w, err := NewBucketWriter(ctx, cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		return NewWriterSink(ctx, string(cfg.ID), w), nil
	case config.SinkTypePostgres:
		w, err := NewPostgresWriter(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		return NewWriterSink(ctx, string(cfg.ID), w), nil
	case config.SinkTypeParquet:
		w, err := NewParquetWriter(cfg.Parquet)
		if err != nil {
			return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
		}
		return NewWriterSink(ctx, string(cfg.ID), w), nil
	}
	return nil, fmt.Errorf("sink %q: invalid type %q", cfg.ID, cfg.Type)
}
