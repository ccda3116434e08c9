package cmd

import (
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "gtfs-feeds",
		Usage: "Fetch GTFS-Realtime feeds and publish them as JSON",
		Description: `Fetches GTFS-Realtime protobuf feeds, keeps the entities of one type
		(trip updates, vehicle positions or alerts) and renders the result as JSON.

		"serve" runs the pipelines described by a YAML config file and routes
		the documents to the configured sinks. "fetch" performs a single
		request and prints the document to stdout.

		Flags can generally be set via environment variables, e.g.:

		--api-key => GTFS_API_KEY=secret
		[config] => CONFIG_PATH=./config/configs/default.yaml
		`,
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
