package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadConfig(t *testing.T) {
	// Create a temporary test file
	testConfig := `
graph:
  sources:
    source1:
      type: "timer"
      timer:
        interval: "30s"
        attributes:
          agency: "mta"
  connectors:
    connector1: {}
  sinks:
    sink1:
      type: "console"
  pipelines:
    tu_pipeline:
      type: "gtfs_compound_feed"
      sources: ["source1"]
      sinks: ["connector1", "sink1"]
      feed:
        url: "https://api.example/${agency}/gtfs"
        header_name: "x-api-key"
        api_key_env: "TEST_FEED_KEY"
        gtfs_type: "trip_update"
    relay_pipeline:
      type: "gtfs_feed"
      sources: ["connector1"]
      sinks: ["sink1"]
event_server:
  port: "8080"
  path: "/events"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")
	err := os.WriteFile(configPath, []byte(testConfig), 0644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if len(config.Graph.Connectors) != 1 {
		t.Errorf("expected 1 connector, got %d", len(config.Graph.Connectors))
	}
	if config.EventServer == nil || config.EventServer.Path != "/events" {
		t.Errorf("unexpected event server config %+v", config.EventServer)
	}

	pipeline := config.Graph.Pipelines["tu_pipeline"]
	if pipeline.ID != "tu_pipeline" {
		t.Errorf("expected pipeline id tu_pipeline, got %q", pipeline.ID)
	}
	if pipeline.Type != PipelineTypeCompoundFeed {
		t.Errorf("expected pipeline type %v, got %v", PipelineTypeCompoundFeed, pipeline.Type)
	}
	expectedFeed := FeedConfig{
		URL:        "https://api.example/${agency}/gtfs",
		HeaderName: "x-api-key",
		APIKeyEnv:  "TEST_FEED_KEY",
		Type:       "trip_update",
	}
	if !reflect.DeepEqual(pipeline.Feed, expectedFeed) {
		t.Errorf("expected feed %+v, got %+v", expectedFeed, pipeline.Feed)
	}

	expectedSource := SourceConfig{
		ID:   "source1",
		Type: SourceTypeTimer,
		Timer: TimerSourceConfig{
			Interval:   "30s",
			Attributes: map[string]string{"agency": "mta"},
		},
	}
	if !reflect.DeepEqual(config.Graph.Sources["source1"], expectedSource) {
		t.Errorf("expected source %+v, got %+v", expectedSource, config.Graph.Sources["source1"])
	}

	expectedConnectorSource := SourceConfig{
		ID:        "connector1",
		Type:      SourceTypeConnector,
		Connector: ConnectorConfig{ID: "connector1"},
	}
	if !reflect.DeepEqual(config.Graph.Sources["connector1"], expectedConnectorSource) {
		t.Errorf("expected connector source %+v, got %+v", expectedConnectorSource, config.Graph.Sources["connector1"])
	}
	expectedConnectorSink := SinkConfig{
		ID:        "connector1",
		Type:      SinkTypeConnector,
		Connector: ConnectorConfig{ID: "connector1"},
	}
	if !reflect.DeepEqual(config.Graph.Sinks["connector1"], expectedConnectorSink) {
		t.Errorf("expected connector sink %+v, got %+v", expectedConnectorSink, config.Graph.Sinks["connector1"])
	}
	if config.Graph.Sinks["sink1"].ID != "sink1" {
		t.Errorf("expected sink id to be filled, got %q", config.Graph.Sinks["sink1"].ID)
	}
}

func TestReadGraphConfigInvalidPath(t *testing.T) {
	_, err := ReadConfig("nonexistent.yaml")
	if err == nil {
		t.Error("ReadConfig() error = nil, want error")
	}
}

func TestReadConfigInvalidYAML(t *testing.T) {
	// Create a temporary file with invalid YAML
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	invalidYAML := `
graph:
  pipelines:
    - type: invalid
      sources:
        - type: [invalid yaml]
`
	if _, err := tmpfile.Write([]byte(invalidYAML)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = ReadConfig(tmpfile.Name())
	if err == nil {
		t.Error("ReadConfig() error = nil, want error")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing graph", yaml: "event_server:\n  port: \"8080\"\n"},
		{
			name: "unknown pipeline type",
			yaml: `
graph:
  pipelines:
    p:
      type: stop_event
`,
		},
		{
			name: "unknown source reference",
			yaml: `
graph:
  sinks:
    out: {type: console}
  pipelines:
    p:
      type: gtfs_feed
      sources: [missing]
      sinks: [out]
`,
		},
		{
			name: "unknown sink reference",
			yaml: `
graph:
  sources:
    tick: {type: timer, timer: {interval: 1s}}
  pipelines:
    p:
      type: gtfs_feed
      sources: [tick]
      sinks: [missing]
`,
		},
		{
			name: "connector written but never read",
			yaml: `
graph:
  connectors:
    results: {}
  sources:
    tick: {type: timer, timer: {interval: 1s}}
  sinks:
    out: {type: console}
  pipelines:
    vehicles:
      type: gtfs_compound_feed
      sources: [tick]
      sinks: [out, results]
    alerts:
      type: gtfs_compound_feed
      sources: [tick]
      sinks: [out]
`,
		},
		{
			name: "connector collides with sink",
			yaml: `
graph:
  connectors:
    out: {}
  sinks:
    out: {type: console}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml)); err == nil {
				t.Error("ParseConfig() error = nil, want error")
			}
		})
	}
}

func TestDefaultConfigParses(t *testing.T) {
	config, err := ReadConfig(filepath.Join("configs", "default.yaml"))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if len(config.Graph.Pipelines) == 0 {
		t.Error("expected pipelines in default config")
	}
}

func TestResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_FEED_KEY", "from-env")
	tests := []struct {
		name string
		cfg  FeedConfig
		want string
	}{
		{name: "inline", cfg: FeedConfig{APIKey: "inline", APIKeyEnv: "TEST_FEED_KEY"}, want: "inline"},
		{name: "env", cfg: FeedConfig{APIKeyEnv: "TEST_FEED_KEY"}, want: "from-env"},
		{name: "none", cfg: FeedConfig{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvedAPIKey(); got != tt.want {
				t.Errorf("ResolvedAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaterializeTwice(t *testing.T) {
	config, err := ParseConfig([]byte(`
graph:
  connectors:
    results: {}
  sources:
    tick: {type: timer, timer: {interval: 1s}}
  pipelines:
    p:
      type: gtfs_feed
      sources: [tick]
      sinks: [results]
    relay:
      type: gtfs_feed
      sources: [results]
`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	again, err := config.Graph.Materialize()
	if err != nil {
		t.Fatalf("second Materialize() error = %v", err)
	}
	if again.Sinks["results"].Type != SinkTypeConnector {
		t.Errorf("got sink type %q, want connector", again.Sinks["results"].Type)
	}
}
