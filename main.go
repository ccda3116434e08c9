package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fjlanasa/gtfs-feeds/cmd"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "gtfs-feeds"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logUrl := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if logUrl != "" {
		resource := resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String("v0.1.0"),
		)
		logExporter, err := otlploghttp.New(ctx,
			otlploghttp.WithEndpoint(logUrl),
			otlploghttp.WithInsecure(),
		)
		if err != nil {
			slog.Error("failed to initialize exporter", "error", err)
			os.Exit(1)
		}
		lp := log.NewLoggerProvider(
			log.WithProcessor(
				log.NewBatchProcessor(logExporter),
			),
			log.WithResource(resource),
		)
		defer func() {
			if err := lp.Shutdown(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "failed to shutdown logger provider: %v\n", err)
			}
		}()
		slog.SetDefault(otelslog.NewLogger(serviceName, otelslog.WithLoggerProvider(lp)))
	} else {
		// stdout is reserved for fetch output
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if err := cmd.RootApp().RunContext(ctx, os.Args); err != nil {
		slog.Error("gtfs-feeds failed", "error", err)
		cancel()
		os.Exit(1)
	}
}
