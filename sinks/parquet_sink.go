package sinks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/feeds"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/parquet-go/parquet-go"
)

// EntityRow is one feed entity flattened for columnar archives.
type EntityRow struct {
	FeedTimestamp int64   `parquet:"feed_timestamp"`
	EntityID      string  `parquet:"entity_id"`
	Kind          string  `parquet:"kind"`
	Deleted       bool    `parquet:"deleted"`
	TripID        string  `parquet:"trip_id"`
	RouteID       string  `parquet:"route_id"`
	VehicleID     string  `parquet:"vehicle_id"`
	Latitude      float32 `parquet:"latitude"`
	Longitude     float32 `parquet:"longitude"`
	Timestamp     int64   `parquet:"timestamp"`
}

func EntityRows(feed *feeds.Feed) []EntityRow {
	feedTimestamp := int64(feed.Header.GetTimestamp())
	rows := make([]EntityRow, 0, len(feed.Entities))
	for _, e := range feed.Entities {
		row := EntityRow{
			FeedTimestamp: feedTimestamp,
			EntityID:      e.ID,
			Kind:          e.Kind().String(),
			Deleted:       e.Deleted,
		}
		switch p := e.Payload.(type) {
		case feeds.TripUpdatePayload:
			row.TripID = p.TripUpdate.GetTrip().GetTripId()
			row.RouteID = p.TripUpdate.GetTrip().GetRouteId()
			row.VehicleID = p.TripUpdate.GetVehicle().GetId()
			row.Timestamp = int64(p.TripUpdate.GetTimestamp())
		case feeds.VehiclePayload:
			row.TripID = p.Vehicle.GetTrip().GetTripId()
			row.RouteID = p.Vehicle.GetTrip().GetRouteId()
			row.VehicleID = p.Vehicle.GetVehicle().GetId()
			row.Latitude = p.Vehicle.GetPosition().GetLatitude()
			row.Longitude = p.Vehicle.GetPosition().GetLongitude()
			row.Timestamp = int64(p.Vehicle.GetTimestamp())
		case feeds.AlertPayload:
			if informed := p.Alert.GetInformedEntity(); len(informed) > 0 {
				row.RouteID = informed[0].GetRouteId()
				row.TripID = informed[0].GetTrip().GetTripId()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ParquetWriter writes one parquet file of EntityRows per document.
type ParquetWriter struct {
	root string
	now  func() time.Time
}

func NewParquetWriter(cfg config.ParquetSinkConfig) (*ParquetWriter, error) {
	if cfg.Path == "" {
		return nil, errors.New("parquet: path is required")
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("parquet: %w", err)
	}
	return &ParquetWriter{root: cfg.Path, now: time.Now}, nil
}

func (w *ParquetWriter) Write(_ context.Context, result records.Result) error {
	feed, err := parseDocument(result.Contents)
	if err != nil {
		return fmt.Errorf("parquet: %w", err)
	}
	rows := EntityRows(feed)
	if len(rows) == 0 {
		return nil
	}
	name := filepath.Join(w.root, filepath.FromSlash(objectName(result, w.now(), "parquet")))
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("parquet: %w", err)
	}
	if err := parquet.WriteFile(name, rows); err != nil {
		return fmt.Errorf("parquet: write %s: %w", name, err)
	}
	return nil
}
