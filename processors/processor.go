package processors

import (
	"context"
	"fmt"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/feeds"
	"github.com/fjlanasa/gtfs-feeds/metrics"
	cf "github.com/fjlanasa/gtfs-feeds/processors/transit/compound_feed"
	ff "github.com/fjlanasa/gtfs-feeds/processors/transit/feed"
	"github.com/fjlanasa/gtfs-feeds/properties"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
)

type Processor interface {
	streams.Flow
}

// Transformer handles one record at a time.
type Transformer interface {
	Transform(ctx context.Context, record records.Record) records.Result
}

type Options struct {
	Fetcher *feeds.Fetcher
	Metrics *metrics.Metrics
}

// feedValues maps a pipeline's feed block onto processor property names.
func feedValues(feed config.FeedConfig) map[string]string {
	return map[string]string{
		cf.URLProperty.Name:        feed.URL,
		cf.HeaderNameProperty.Name: feed.HeaderName,
		cf.APIKeyProperty.Name:     feed.ResolvedAPIKey(),
		cf.TypeProperty.Name:       feed.Type,
	}
}

func NewTransformer(cfg config.PipelineConfig, opts Options) (Transformer, error) {
	values := feedValues(cfg.Feed)
	switch cfg.Type {
	case config.PipelineTypeCompoundFeed:
		props := properties.NewContext(cf.Properties(), values)
		if err := props.Validate(); err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", cfg.ID, err)
		}
		p, err := cf.NewCompoundFeedProcessor(props, cf.WithFetcher(opts.Fetcher), cf.WithMetrics(opts.Metrics))
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", cfg.ID, err)
		}
		return p, nil
	case config.PipelineTypeFeed:
		props := properties.NewContext(ff.Properties(), values)
		if err := props.Validate(); err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", cfg.ID, err)
		}
		return ff.NewFeedProcessor(props, ff.WithFetcher(opts.Fetcher), ff.WithMetrics(opts.Metrics)), nil
	}
	return nil, fmt.Errorf("pipeline %q: invalid type %q", cfg.ID, cfg.Type)
}

func NewProcessor(ctx context.Context, cfg config.PipelineConfig, opts Options) (Processor, error) {
	t, err := NewTransformer(cfg, opts)
	if err != nil {
		return nil, err
	}
	return NewTransformFlow(ctx, t), nil
}
