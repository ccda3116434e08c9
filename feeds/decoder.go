package feeds

import (
	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

type Kind int

const (
	KindNone Kind = iota
	KindTripUpdate
	KindVehicle
	KindAlert
)

func (k Kind) String() string {
	switch k {
	case KindTripUpdate:
		return "trip_update"
	case KindVehicle:
		return "vehicle"
	case KindAlert:
		return "alert"
	}
	return "none"
}

// Payload is the single populated payload of an entity.
type Payload interface {
	Kind() Kind
}

type TripUpdatePayload struct {
	TripUpdate *gtfs.TripUpdate
}

func (TripUpdatePayload) Kind() Kind { return KindTripUpdate }

type VehiclePayload struct {
	Vehicle *gtfs.VehiclePosition
}

func (VehiclePayload) Kind() Kind { return KindVehicle }

type AlertPayload struct {
	Alert *gtfs.Alert
}

func (AlertPayload) Kind() Kind { return KindAlert }

// Entity is a decoded feed entity. Payload is nil when the entity carries
// none of the three payload kinds.
type Entity struct {
	ID      string
	Deleted bool
	Payload Payload

	// deletedSet records whether is_deleted was present on the wire.
	deletedSet bool
	raw        *gtfs.FeedEntity
}

func (e Entity) Kind() Kind {
	if e.Payload == nil {
		return KindNone
	}
	return e.Payload.Kind()
}

// Proto rebuilds the wire entity. Fields outside id, is_deleted and the
// payload are carried over from the decoded entity; only the selected payload
// variant is set.
func (e Entity) Proto() *gtfs.FeedEntity {
	out := &gtfs.FeedEntity{}
	if e.raw != nil {
		out = proto.Clone(e.raw).(*gtfs.FeedEntity)
	}
	out.Id = proto.String(e.ID)
	out.IsDeleted = nil
	if e.deletedSet || e.Deleted {
		out.IsDeleted = proto.Bool(e.Deleted)
	}
	out.TripUpdate, out.Vehicle, out.Alert = nil, nil, nil
	switch p := e.Payload.(type) {
	case TripUpdatePayload:
		out.TripUpdate = p.TripUpdate
	case VehiclePayload:
		out.Vehicle = p.Vehicle
	case AlertPayload:
		out.Alert = p.Alert
	}
	return out
}

// Feed is one decoded FeedMessage. It is not modified after Decode returns.
type Feed struct {
	Header   *gtfs.FeedHeader
	Entities []Entity
}

// Message rebuilds the wire message.
func (f *Feed) Message() *gtfs.FeedMessage {
	msg := &gtfs.FeedMessage{
		Header: f.Header,
		Entity: make([]*gtfs.FeedEntity, 0, len(f.Entities)),
	}
	for _, e := range f.Entities {
		msg.Entity = append(msg.Entity, e.Proto())
	}
	return msg
}

// Decode parses data as a FeedMessage. Truncated input, bad tags or varints
// and missing required fields all fail with a *DecodeError.
func Decode(data []byte) (*Feed, error) {
	msg := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return FromMessage(msg), nil
}

// FromMessage converts an already decoded message.
func FromMessage(msg *gtfs.FeedMessage) *Feed {
	feed := &Feed{
		Header:   msg.GetHeader(),
		Entities: make([]Entity, 0, len(msg.GetEntity())),
	}
	for _, fe := range msg.GetEntity() {
		feed.Entities = append(feed.Entities, entityFromProto(fe))
	}
	return feed
}

// Encode renders a feed back to wire bytes.
func Encode(feed *Feed) ([]byte, error) {
	return proto.Marshal(feed.Message())
}

// entityFromProto picks the payload by field presence. If the wire carried
// more than one, trip_update wins over vehicle, and vehicle over alert.
func entityFromProto(fe *gtfs.FeedEntity) Entity {
	e := Entity{
		ID:         fe.GetId(),
		Deleted:    fe.GetIsDeleted(),
		deletedSet: fe.IsDeleted != nil,
		raw:        fe,
	}
	switch {
	case fe.GetTripUpdate() != nil:
		e.Payload = TripUpdatePayload{TripUpdate: fe.GetTripUpdate()}
	case fe.GetVehicle() != nil:
		e.Payload = VehiclePayload{Vehicle: fe.GetVehicle()}
	case fe.GetAlert() != nil:
		e.Payload = AlertPayload{Alert: fe.GetAlert()}
	}
	return e
}
