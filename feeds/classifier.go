package feeds

import (
	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Document is the filtered view of a feed for one category.
type Document struct {
	Category Category
	Header   *gtfs.FeedHeader
	Entities []Entity
}

// Message rebuilds the wire message for the document.
func (d *Document) Message() *gtfs.FeedMessage {
	return (&Feed{Header: d.Header, Entities: d.Entities}).Message()
}

// Selects reports whether e belongs in the output for category. A deleted
// entity belongs to whichever category is selected, whatever its payload.
func Selects(e Entity, category Category) bool {
	if e.Deleted {
		return true
	}
	kind := e.Kind()
	return kind != KindNone && kind == category.Kind()
}

// Classify returns the entities of feed selected for category, in feed order.
// feed is not modified.
func Classify(feed *Feed, category Category) *Document {
	doc := &Document{Category: category, Entities: []Entity{}}
	if feed == nil {
		return doc
	}
	if feed.Header != nil {
		doc.Header = proto.Clone(feed.Header).(*gtfs.FeedHeader)
	}
	for _, e := range feed.Entities {
		if Selects(e, category) {
			doc.Entities = append(doc.Entities, e)
		}
	}
	return doc
}
