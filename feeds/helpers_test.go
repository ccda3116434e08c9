package feeds

import (
	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

const testTimestamp = 1700000000

func testHeader() *gtfs.FeedHeader {
	return &gtfs.FeedHeader{
		GtfsRealtimeVersion: proto.String("2.0"),
		Timestamp:           proto.Uint64(testTimestamp),
	}
}

func tripUpdateEntity(id string) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id: proto.String(id),
		TripUpdate: &gtfs.TripUpdate{
			Trip: &gtfs.TripDescriptor{
				TripId:  proto.String("trip-" + id),
				RouteId: proto.String("Red"),
			},
			StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{
				{
					StopSequence: proto.Uint32(3),
					StopId:       proto.String("place-pktrm"),
					Arrival:      &gtfs.TripUpdate_StopTimeEvent{Delay: proto.Int32(45)},
				},
			},
		},
	}
}

func vehicleEntity(id string) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id: proto.String(id),
		Vehicle: &gtfs.VehiclePosition{
			Vehicle: &gtfs.VehicleDescriptor{Id: proto.String("v-" + id)},
			Trip:    &gtfs.TripDescriptor{RouteId: proto.String("Blue")},
			Position: &gtfs.Position{
				Latitude:  proto.Float32(42.35),
				Longitude: proto.Float32(-71.06),
			},
			Timestamp: proto.Uint64(testTimestamp),
		},
	}
}

func alertEntity(id string) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id: proto.String(id),
		Alert: &gtfs.Alert{
			InformedEntity: []*gtfs.EntitySelector{{RouteId: proto.String("Green")}},
			HeaderText: &gtfs.TranslatedString{
				Translation: []*gtfs.TranslatedString_Translation{
					{Text: proto.String("Shuttle buses replace service"), Language: proto.String("en")},
				},
			},
		},
	}
}

func deleted(e *gtfs.FeedEntity) *gtfs.FeedEntity {
	e.IsDeleted = proto.Bool(true)
	return e
}

func testMessage(entities ...*gtfs.FeedEntity) *gtfs.FeedMessage {
	return &gtfs.FeedMessage{Header: testHeader(), Entity: entities}
}

func mustMarshal(msg *gtfs.FeedMessage) []byte {
	data, err := proto.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return data
}

func entityIDs(entities []Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}
