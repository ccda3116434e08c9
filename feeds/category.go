package feeds

import (
	"fmt"
	"strings"
)

// Category selects which payload kind a run extracts.
type Category int

const (
	CategoryTripUpdate Category = iota
	CategoryVehicle
	CategoryAlert
)

// DefaultCategory is used when no category is configured.
const DefaultCategory = CategoryTripUpdate

var categoryNames = map[Category]string{
	CategoryTripUpdate: "trip_update",
	CategoryVehicle:    "vehicle",
	CategoryAlert:      "alert",
}

// CategoryNames lists the configuration values accepted for a category.
func CategoryNames() []string {
	return []string{"trip_update", "vehicle", "alert"}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Kind is the payload kind a category extracts.
func (c Category) Kind() Kind {
	switch c {
	case CategoryTripUpdate:
		return KindTripUpdate
	case CategoryVehicle:
		return KindVehicle
	case CategoryAlert:
		return KindAlert
	}
	return KindNone
}

// ParseCategory accepts trip_update, vehicle and alert in any case. An empty
// string yields DefaultCategory.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultCategory, nil
	case "trip_update", "trip_updates":
		return CategoryTripUpdate, nil
	case "vehicle", "vehicle_position", "vehicle_positions":
		return CategoryVehicle, nil
	case "alert", "alerts":
		return CategoryAlert, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
