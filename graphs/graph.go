package graphs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/pipelines"
	"github.com/fjlanasa/gtfs-feeds/processors"
	"github.com/fjlanasa/gtfs-feeds/sinks"
	"github.com/fjlanasa/gtfs-feeds/sources"
	"github.com/reugn/go-streams/flow"
)

const outletID config.ID = "outlet"

type Graph struct {
	pipelines []*pipelines.Pipeline
	outlet    chan any
	cancel    context.CancelFunc
}

type graphOptions struct {
	outlet     chan any
	processors processors.Options
}

type GraphOption func(*graphOptions)

// WithOutlet copies every pipeline's results onto outlet.
func WithOutlet(outlet chan any) GraphOption {
	return func(o *graphOptions) {
		o.outlet = outlet
	}
}

func WithProcessorOptions(opts processors.Options) GraphOption {
	return func(o *graphOptions) {
		o.processors = opts
	}
}

// NewGraph builds every referenced source and sink once. A source used by
// several pipelines is fanned out so each of them sees every record.
func NewGraph(ctx context.Context, cfg config.GraphConfig, opts ...GraphOption) (*Graph, error) {
	var o graphOptions
	for _, opt := range opts {
		opt(&o)
	}
	cfg, err := cfg.Materialize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	graph := &Graph{outlet: o.outlet, cancel: cancel}
	fail := func(err error) (*Graph, error) {
		cancel()
		return nil, err
	}

	connectors := make(map[config.ID]chan any, len(cfg.Connectors))
	for id := range cfg.Connectors {
		connectors[id] = make(chan any)
	}

	pipelineIDs := make([]config.ID, 0, len(cfg.Pipelines))
	for id := range cfg.Pipelines {
		pipelineIDs = append(pipelineIDs, id)
	}
	slices.Sort(pipelineIDs)

	sourceRefs := map[config.ID]int{}
	sinkRefs := map[config.ID]bool{}
	for _, id := range pipelineIDs {
		p := cfg.Pipelines[id]
		for _, ref := range uniqueIDs(p.Sources) {
			sourceRefs[ref]++
		}
		for _, ref := range p.Sinks {
			sinkRefs[ref] = true
		}
	}

	sourceInstances := make(map[config.ID][]sources.Source, len(sourceRefs))
	for id, refs := range sourceRefs {
		source, err := sources.NewSource(ctx, cfg.Sources[id], connectors)
		if err != nil {
			return fail(err)
		}
		if refs == 1 {
			sourceInstances[id] = []sources.Source{source}
			continue
		}
		for _, branch := range flow.FanOut(source.Via(flow.NewPassThrough()), refs) {
			sourceInstances[id] = append(sourceInstances[id], branch)
		}
	}
	for id := range cfg.Sources {
		if sourceRefs[id] == 0 {
			slog.Warn("graph: source not used by any pipeline", "source", id)
		}
	}

	sinksByID := make(map[config.ID]sinks.Sink, len(sinkRefs))
	for id := range sinkRefs {
		sink, err := sinks.NewSink(ctx, cfg.Sinks[id], connectors)
		if err != nil {
			return fail(err)
		}
		sinksByID[id] = sink
	}

	var outletSink sinks.Sink
	if o.outlet != nil {
		outletSink = sinks.NewConnectorSink(ctx, config.ConnectorConfig{ID: outletID}, map[config.ID]chan any{outletID: o.outlet})
	}

	for _, id := range pipelineIDs {
		p := cfg.Pipelines[id]
		sourcesByID := make(map[config.ID]sources.Source, len(p.Sources))
		for _, ref := range uniqueIDs(p.Sources) {
			instances := sourceInstances[ref]
			sourcesByID[ref] = instances[0]
			sourceInstances[ref] = instances[1:]
		}
		pipeline, err := pipelines.NewPipeline(ctx, p, sourcesByID, sinksByID, o.processors)
		if err != nil {
			return fail(fmt.Errorf("graph: %w", err))
		}
		if outletSink != nil {
			pipeline.AddSink(outletSink)
		}
		graph.pipelines = append(graph.pipelines, pipeline)
	}
	return graph, nil
}

func uniqueIDs(ids []config.ID) []config.ID {
	seen := make(map[config.ID]bool, len(ids))
	out := make([]config.ID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (g *Graph) Out() chan any {
	return g.outlet
}

func (g *Graph) Run() {
	for _, pipeline := range g.pipelines {
		go pipeline.Run()
	}
}

// Close stops every source, processor and sink the graph started.
func (g *Graph) Close() {
	g.cancel()
}
