package config

import "os"

type PipelineType string

const (
	PipelineTypeCompoundFeed PipelineType = "gtfs_compound_feed"
	PipelineTypeFeed         PipelineType = "gtfs_feed"
)

func (t PipelineType) Valid() bool {
	return t == PipelineTypeCompoundFeed || t == PipelineTypeFeed
}

// FeedConfig holds the processor properties. URL, HeaderName and APIKey may
// reference record attributes as ${name}.
type FeedConfig struct {
	URL        string `yaml:"url"`
	HeaderName string `yaml:"header_name"`
	APIKey     string `yaml:"api_key"`
	// APIKeyEnv names an environment variable read when APIKey is empty.
	APIKeyEnv string `yaml:"api_key_env"`
	Type      string `yaml:"gtfs_type"`
}

func (f FeedConfig) ResolvedAPIKey() string {
	if f.APIKey == "" && f.APIKeyEnv != "" {
		return os.Getenv(f.APIKeyEnv)
	}
	return f.APIKey
}

// Pipeline

type PipelineConfig struct {
	ID      ID           `yaml:"id"`
	Type    PipelineType `yaml:"type"`
	Sources []ID         `yaml:"sources"`
	Sinks   []ID         `yaml:"sinks"`
	Feed    FeedConfig   `yaml:"feed"`
}
