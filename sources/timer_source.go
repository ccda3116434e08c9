package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
	"github.com/reugn/go-streams/flow"
)

// TimerSource emits an empty-payload record carrying the configured
// attributes on every tick. It is what drives a polling pipeline.
type TimerSource struct {
	ctx      context.Context
	cfg      config.TimerSourceConfig
	out      chan any
	interval time.Duration
}

func NewTimerSource(ctx context.Context, cfg config.TimerSourceConfig) (*TimerSource, error) {
	duration, err := time.ParseDuration(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid timer interval %q: %w", cfg.Interval, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("timer interval must be positive, got %q", cfg.Interval)
	}
	source := &TimerSource{ctx: ctx, cfg: cfg, out: make(chan any), interval: duration}
	go source.init()
	return source, nil
}

func (s *TimerSource) init() {
	defer close(s.out)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.cfg.Immediate && !s.emit() {
		return
	}
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if !s.emit() {
				return
			}
		}
	}
}

func (s *TimerSource) emit() bool {
	select {
	case s.out <- records.NewRecord(nil, s.cfg.Attributes):
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *TimerSource) Via(operator streams.Flow) streams.Flow {
	flow.DoStream(s, operator)
	return operator
}

func (s *TimerSource) Out() <-chan any {
	return s.out
}
