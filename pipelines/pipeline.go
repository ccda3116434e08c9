package pipelines

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/processors"
	"github.com/fjlanasa/gtfs-feeds/sinks"
	"github.com/fjlanasa/gtfs-feeds/sources"
	"github.com/reugn/go-streams"
	"github.com/reugn/go-streams/flow"
)

// Pipeline merges its sources into one processor and copies every result to
// each of its sinks.
type Pipeline struct {
	ID           config.ID
	pipelineType config.PipelineType
	ctx          context.Context
	sources      []sources.Source
	sinks        []sinks.Sink
	processor    processors.Processor
}

func NewPipeline(
	ctx context.Context,
	cfg config.PipelineConfig,
	sourcesByID map[config.ID]sources.Source,
	sinksByID map[config.ID]sinks.Sink,
	opts processors.Options,
) (*Pipeline, error) {
	pipelineSources := make([]sources.Source, 0, len(cfg.Sources))
	for _, id := range cfg.Sources {
		source, found := sourcesByID[id]
		if !found {
			return nil, fmt.Errorf("pipeline %q: source %q not found", cfg.ID, id)
		}
		pipelineSources = append(pipelineSources, source)
	}
	if len(pipelineSources) == 0 {
		return nil, fmt.Errorf("pipeline %q: no sources", cfg.ID)
	}
	pipelineSinks := make([]sinks.Sink, 0, len(cfg.Sinks))
	for _, id := range cfg.Sinks {
		sink, found := sinksByID[id]
		if !found {
			return nil, fmt.Errorf("pipeline %q: sink %q not found", cfg.ID, id)
		}
		pipelineSinks = append(pipelineSinks, sink)
	}
	processor, err := processors.NewProcessor(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		ID:           cfg.ID,
		pipelineType: cfg.Type,
		ctx:          ctx,
		sources:      pipelineSources,
		sinks:        pipelineSinks,
		processor:    processor,
	}, nil
}

// AddSink attaches a sink before Run.
func (p *Pipeline) AddSink(sink sinks.Sink) {
	p.sinks = append(p.sinks, sink)
}

func (p *Pipeline) Run() {
	slog.Info("pipeline: running", "pipeline", p.ID, "type", p.pipelineType, "sources", len(p.sources), "sinks", len(p.sinks))
	sourceFlows := []streams.Flow{}
	for _, source := range p.sources {
		sourceFlows = append(sourceFlows, source.Via(flow.NewPassThrough()))
	}
	mergeFlow := flow.Merge(sourceFlows...).Via(p.processor)
	if len(p.sinks) == 0 {
		go drain(mergeFlow)
		return
	}
	sinkFlows := flow.FanOut(mergeFlow, len(p.sinks))
	for i, sink := range p.sinks {
		go p.forward(sinkFlows[i], sink)
	}
}

// forward feeds a sink without ever closing its input, since sinks can be
// shared between pipelines.
func (p *Pipeline) forward(from streams.Flow, to streams.Inlet) {
	for element := range from.Out() {
		select {
		case to.In() <- element:
		case <-p.ctx.Done():
			go drain(from)
			return
		}
	}
}

func drain(from streams.Flow) {
	for range from.Out() {
	}
}
