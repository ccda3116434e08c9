package config

// Source

type SourceType string

const (
	SourceTypeTimer     SourceType = "timer"
	SourceTypeHTTP      SourceType = "http"
	SourceTypeConnector SourceType = "connector"
)

// TimerSourceConfig emits one record per interval carrying Attributes.
type TimerSourceConfig struct {
	Interval   string            `yaml:"interval"`
	Immediate  bool              `yaml:"immediate"`
	Attributes map[string]string `yaml:"attributes"`
}

// HTTPSourceConfig listens for POSTed records: the body is the payload and
// query parameters are attributes.
type HTTPSourceConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

type SourceConfig struct {
	ID    ID                `yaml:"id"`
	Type  SourceType        `yaml:"type"`
	Timer TimerSourceConfig `yaml:"timer"`
	HTTP  HTTPSourceConfig  `yaml:"http"`
	// Connector Channel
	Connector ConnectorConfig `yaml:"connector"`
}
