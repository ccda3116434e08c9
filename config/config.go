package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ID string

type ConfigYaml struct {
	EventServer *EventServerConfig `yaml:"event_server"`
	Graph       *GraphConfig       `yaml:"graph"`
}

type Config struct {
	EventServer *EventServerConfig
	Graph       *GraphConfig
}

func ReadConfig(path string) (*Config, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(yamlFile)
}

func ParseConfig(data []byte) (*Config, error) {
	var config ConfigYaml
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if config.Graph == nil {
		return nil, fmt.Errorf("parse config: graph section is missing")
	}
	graph, err := config.Graph.Materialize()
	if err != nil {
		return nil, err
	}
	return &Config{
		EventServer: config.EventServer,
		Graph:       &graph,
	}, nil
}
