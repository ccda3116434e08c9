package sinks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
)

// redactedAttributes are left out of console lines; feed URLs often embed
// API keys.
var redactedAttributes = map[string]bool{"gtfsurl": true}

// LogSink writes a line per result: its attributes, payload size and any
// recoverable error. Failed results are logged at warn regardless of level.
type LogSink struct {
	streams.Sink
	logger *slog.Logger
	level  slog.Level
	in     chan any
	ctx    context.Context
}

func NewLogSink(ctx context.Context, cfg config.ConsoleSinkConfig) *LogSink {
	level := slog.LevelInfo
	switch cfg.Level {
	case config.ConsoleSinkLevelDebug:
		level = slog.LevelDebug
	case config.ConsoleSinkLevelWarning:
		level = slog.LevelWarn
	case config.ConsoleSinkLevelError:
		level = slog.LevelError
	}
	sink := &LogSink{
		ctx:    ctx,
		logger: slog.Default(),
		in:     make(chan any),
		level:  level,
	}
	go sink.doSink(ctx)
	return sink
}

func (s *LogSink) doSink(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.in:
			if !ok {
				return
			}
			result, ok := records.AsResult(msg)
			if !ok {
				s.logger.Log(ctx, slog.LevelWarn, "console sink: unsupported element", "type", fmt.Sprintf("%T", msg))
				continue
			}

			keys := make([]string, 0, len(result.Attributes))
			for k := range result.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			args := make([]any, 0, 2*len(keys)+4)
			for _, k := range keys {
				if v := result.Attributes[k]; v != "" && !redactedAttributes[k] {
					args = append(args, k, v)
				}
			}
			args = append(args, "bytes", len(result.Contents))

			level := s.level
			if result.Err != nil {
				args = append(args, "error", result.Err)
				level = max(level, slog.LevelWarn)
			}
			s.logger.Log(ctx, level, fmt.Sprintf("console sink: %s", result.Relationship), args...)
		}
	}
}

func (s *LogSink) In() chan<- any {
	return s.in
}
