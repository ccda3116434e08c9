package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/event_server"
	"github.com/fjlanasa/gtfs-feeds/graphs"
	"github.com/fjlanasa/gtfs-feeds/metrics"
	"github.com/fjlanasa/gtfs-feeds/processors"
	"github.com/fjlanasa/gtfs-feeds/sinks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/reugn/go-streams/extension"
	"github.com/reugn/go-streams/flow"
	"github.com/urfave/cli/v2"
)

const defaultConfigPath = "./config/configs/default.yaml"

// configPath applies the precedence CONFIG_PATH > argument > default.
func configPath(arg string, getenv func(string) string) string {
	path := defaultConfigPath
	if arg != "" {
		path = arg
	}
	if envPath := getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}
	return path
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run the configured feed pipelines",
		ArgsUsage: "[config]",
		Description: `Reads the YAML config (CONFIG_PATH, the first argument, or
./config/configs/default.yaml, in that order) and runs every pipeline until
interrupted. When event_server is configured, results are streamed as
Server-Sent Events and Prometheus metrics are served next to them.`,
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			path := configPath(c.Args().First(), os.Getenv)
			cfg, err := config.ReadConfig(path)
			if err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err := metrics.New(reg)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			var outlet chan any
			if cfg.EventServer != nil {
				outlet = make(chan any)
			}
			graph, err := graphs.NewGraph(ctx, *cfg.Graph,
				graphs.WithOutlet(outlet),
				graphs.WithProcessorOptions(processors.Options{Metrics: m}),
			)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}
			defer graph.Close()

			if cfg.EventServer != nil {
				eventServer := event_server.NewEventServer(ctx, *cfg.EventServer, metrics.Handler(reg))
				go extension.NewChanSource(graph.Out()).Via(flow.NewPassThrough()).To(sinks.NewHttpSink(ctx, eventServer))
			}

			slog.Info("serve: started", "config", path, "pipelines", len(cfg.Graph.Pipelines))
			graph.Run()

			<-ctx.Done()
			slog.Info("serve: shutting down")
			return nil
		},
	}
}
