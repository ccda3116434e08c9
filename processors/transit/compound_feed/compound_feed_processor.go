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

const Name = "gtfs_compound_feed"

const (
	AttributeURL  = "gtfsurl"
	AttributeType = "gtfstype"
)

var (
	URLProperty = properties.Descriptor{
		Name:            "url",
		Description:     "Read GTFS from Feed and Convert to JSON from one or more types",
		Required:        true,
		Sensitive:       true,
		ExpressionScope: properties.ScopeRecordAttributes,
	}
	HeaderNameProperty = properties.Descriptor{
		Name:            "header_name",
		Description:     "API key header name, e.g. x-api-key",
		ExpressionScope: properties.ScopeRecordAttributes,
	}
	APIKeyProperty = properties.Descriptor{
		Name:            "api_key",
		Description:     "API key sent in the header named by header_name",
		Sensitive:       true,
		ExpressionScope: properties.ScopeRecordAttributes,
	}
	TypeProperty = properties.Descriptor{
		Name:            "gtfs_type",
		Description:     "Entity type to extract: trip_update, vehicle or alert",
		Required:        true,
		DefaultValue:    feeds.DefaultCategory.String(),
		AllowableValues: feeds.CategoryNames(),
		Validator:       func(s string) error {
			_, err := feeds.ParseCategory(s)
			return err
		},
	}
)

func Properties() []properties.Descriptor {
	return []properties.Descriptor{URLProperty, HeaderNameProperty, APIKeyProperty, TypeProperty}
}

// CompoundFeedProcessor fetches a feed that may mix trip updates, vehicle
// positions and alerts and returns the entities of one type as JSON.
type CompoundFeedProcessor struct {
	props    *properties.Context
	category feeds.Category
	fetcher  *feeds.Fetcher
	metrics  *metrics.Metrics
}

type Option func(*CompoundFeedProcessor)

func WithFetcher(f *feeds.Fetcher) Option {
	return func(p *CompoundFeedProcessor) {
		if f != nil {
			p.fetcher = f
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *CompoundFeedProcessor) {
		p.metrics = m
	}
}

// NewCompoundFeedProcessor fails only on an unknown gtfs_type. A missing URL
// is reported per record.
func NewCompoundFeedProcessor(props *properties.Context, opts ...Option) (*CompoundFeedProcessor, error) {
	category, err := feeds.ParseCategory(props.Raw(TypeProperty))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TypeProperty.Name, err)
	}
	p := &CompoundFeedProcessor{
		props:    props,
		category: category,
		fetcher:  feeds.NewFetcher(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *CompoundFeedProcessor) Category() feeds.Category {
	return p.category
}

// Transform always routes to success. Fetch and decode failures leave the
// contents empty and are reported on Result.Err.
func (p *CompoundFeedProcessor) Transform(ctx context.Context, record records.Record) records.Result {
	start := time.Now()
	url := p.props.Evaluate(URLProperty, record).String()
	cred := feeds.Credential{
		Header: p.props.Evaluate(HeaderNameProperty, record).String(),
		Value:  p.props.Evaluate(APIKeyProperty, record).String(),
	}
	result := records.Result{
		Relationship: records.RelationshipSuccess,
		Contents:     []byte{},
		Attributes: map[string]string{
			AttributeURL:  url,
			AttributeType: p.category.String(),
		},
	}

	contents, selected, err := p.run(ctx, url, cred)
	p.metrics.ObserveInvocation(Name, err, time.Since(start))
	if err != nil {
		logFailure(ctx, p.category, err)
		result.Err = err
		return result
	}
	p.metrics.AddSelected(p.category.String(), selected)
	result.Contents = contents
	return result
}

func (p *CompoundFeedProcessor) run(ctx context.Context, url string, cred feeds.Credential) ([]byte, int, error) {
	feed, err := p.fetcher.Load(ctx, url, cred)
	if err != nil {
		return nil, 0, err
	}
	doc := feeds.Classify(feed, p.category)
	out, err := feeds.Serialize(doc)
	if err != nil {
		return nil, 0, fmt.Errorf("serialize: %w", err)
	}
	return out, len(doc.Entities), nil
}

func logFailure(ctx context.Context, category feeds.Category, err error) {
	switch {
	case errors.Is(err, feeds.ErrNoURL):
		slog.InfoContext(ctx, "compound feed: no url, skipping fetch", "gtfs_type", category.String())
	case feeds.IsDecodeError(err):
		slog.WarnContext(ctx, "compound feed: decode failed", "gtfs_type", category.String(), "error", err)
	default:
		slog.WarnContext(ctx, "compound feed: fetch failed", "gtfs_type", category.String(), "error", err)
	}
}
