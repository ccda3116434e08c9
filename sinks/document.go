package sinks

import (
	"fmt"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/fjlanasa/gtfs-feeds/feeds"
	"google.golang.org/protobuf/encoding/protojson"
)

// parseDocument reads a serialized output document back into a feed.
func parseDocument(contents []byte) (*feeds.Feed, error) {
	var msg gtfs.FeedMessage
	opts := protojson.UnmarshalOptions{AllowPartial: true, DiscardUnknown: true}
	if err := opts.Unmarshal(contents, &msg); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return feeds.FromMessage(&msg), nil
}
