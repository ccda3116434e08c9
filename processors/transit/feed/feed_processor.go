package processors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjlanasa/gtfs-feeds/feeds"
	"github.com/fjlanasa/gtfs-feeds/metrics"
	"github.com/fjlanasa/gtfs-feeds/properties"
	"github.com/fjlanasa/gtfs-feeds/records"
)

const Name = "gtfs_feed"

const AttributeURL = "gtfsurl"

var URLProperty = properties.Descriptor{
	Name:            "url",
	Description:     "Read GTFS from Feed and Convert to JSON",
	Required:        true,
	ExpressionScope: properties.ScopeRecordAttributes,
}

func Properties() []properties.Descriptor {
	return []properties.Descriptor{URLProperty}
}

// FeedProcessor renders a whole feed as JSON without filtering.
type FeedProcessor struct {
	props   *properties.Context
	fetcher *feeds.Fetcher
	metrics *metrics.Metrics
}

type Option func(*FeedProcessor)

func WithFetcher(f *feeds.Fetcher) Option {
	return func(p *FeedProcessor) {
		if f != nil {
			p.fetcher = f
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *FeedProcessor) {
		p.metrics = m
	}
}

func NewFeedProcessor(props *properties.Context, opts ...Option) *FeedProcessor {
	p := &FeedProcessor{props: props, fetcher: feeds.NewFetcher()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *FeedProcessor) Transform(ctx context.Context, record records.Record) records.Result {
	start := time.Now()
	url := p.props.Evaluate(URLProperty, record).String()
	result := records.Result{
		Relationship: records.RelationshipSuccess,
		Contents:     []byte{},
		Attributes:   map[string]string{AttributeURL: url},
	}

	feed, err := p.fetcher.Load(ctx, url, feeds.Credential{})
	if err == nil {
		result.Contents, err = feeds.SerializeFeed(feed)
		if err != nil {
			err = fmt.Errorf("serialize: %w", err)
			result.Contents = []byte{}
		}
	}
	p.metrics.ObserveInvocation(Name, err, time.Since(start))
	if err != nil {
		if errors.Is(err, feeds.ErrNoURL) {
			slog.InfoContext(ctx, "feed: no url, skipping fetch")
		} else {
			slog.WarnContext(ctx, "feed: load failed", "error", err)
		}
		result.Err = err
	}
	return result
}
