package sinks

import (
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/fjlanasa/gtfs-feeds/feeds"
	"github.com/fjlanasa/gtfs-feeds/records"
	"google.golang.org/protobuf/proto"
)

// vehicleDocument renders a vehicle document with one position per id, as
// the compound feed processor would.
func vehicleDocument(t *testing.T, ids ...string) records.Result {
	t.Helper()
	msg := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1700000000),
		},
	}
	for _, id := range ids {
		msg.Entity = append(msg.Entity, &gtfs.FeedEntity{
			Id: proto.String(id),
			Vehicle: &gtfs.VehiclePosition{
				Trip:      &gtfs.TripDescriptor{TripId: proto.String("trip-" + id), RouteId: proto.String("Red")},
				Vehicle:   &gtfs.VehicleDescriptor{Id: proto.String("bus-" + id)},
				Position:  &gtfs.Position{Latitude: proto.Float32(42.5), Longitude: proto.Float32(-71.25)},
				Timestamp: proto.Uint64(1699999990),
			},
		})
	}
	doc := feeds.Classify(feeds.FromMessage(msg), feeds.CategoryVehicle)
	contents, err := feeds.Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return records.Result{
		Relationship: records.RelationshipSuccess,
		Contents:     contents,
		Attributes:   map[string]string{"gtfsurl": "http://feed/vehicles", "gtfstype": "vehicle"},
	}
}
