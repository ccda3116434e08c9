package config

import (
	"fmt"
	"slices"
)

// Connector

type ConnectorConfig struct {
	ID ID `yaml:"id"`
}

type GraphConfig struct {
	Sources    map[ID]SourceConfig    `yaml:"sources"`
	Connectors map[ID]ConnectorConfig `yaml:"connectors"`
	Sinks      map[ID]SinkConfig      `yaml:"sinks"`
	Pipelines  map[ID]PipelineConfig  `yaml:"pipelines"`
}

// isConnector reports whether an entry is the one Materialize generates for
// connector id, so that materializing twice is harmless.
func isConnector(connectorType bool, c ConnectorConfig, id ID) bool {
	return connectorType && c.ID == id
}

// Materialize fills IDs from map keys and exposes every connector as both a
// source and a sink of type connector.
func (g GraphConfig) Materialize() (GraphConfig, error) {
	out := GraphConfig{
		Sources:    make(map[ID]SourceConfig, len(g.Sources)+len(g.Connectors)),
		Connectors: make(map[ID]ConnectorConfig, len(g.Connectors)),
		Sinks:      make(map[ID]SinkConfig, len(g.Sinks)+len(g.Connectors)),
		Pipelines:  make(map[ID]PipelineConfig, len(g.Pipelines)),
	}
	for id, src := range g.Sources {
		src.ID = id
		out.Sources[id] = src
	}
	for id, snk := range g.Sinks {
		snk.ID = id
		out.Sinks[id] = snk
	}
	for id := range g.Connectors {
		connector := ConnectorConfig{ID: id}
		out.Connectors[id] = connector
		if src, ok := out.Sources[id]; ok && !isConnector(src.Type == SourceTypeConnector, src.Connector, id) {
			return GraphConfig{}, fmt.Errorf("connector %q collides with a source of the same id", id)
		}
		if snk, ok := out.Sinks[id]; ok && !isConnector(snk.Type == SinkTypeConnector, snk.Connector, id) {
			return GraphConfig{}, fmt.Errorf("connector %q collides with a sink of the same id", id)
		}
		out.Sources[id] = SourceConfig{ID: id, Type: SourceTypeConnector, Connector: connector}
		out.Sinks[id] = SinkConfig{ID: id, Type: SinkTypeConnector, Connector: connector}
	}
	for id, p := range g.Pipelines {
		p.ID = id
		if !p.Type.Valid() {
			return GraphConfig{}, fmt.Errorf("pipeline %q: invalid type %q", id, p.Type)
		}
		for _, ref := range p.Sources {
			if _, ok := out.Sources[ref]; !ok {
				return GraphConfig{}, fmt.Errorf("pipeline %q: unknown source %q", id, ref)
			}
		}
		for _, ref := range p.Sinks {
			if _, ok := out.Sinks[ref]; !ok {
				return GraphConfig{}, fmt.Errorf("pipeline %q: unknown sink %q", id, ref)
			}
		}
		out.Pipelines[id] = p
	}
	if err := checkConnectorReaders(out); err != nil {
		return GraphConfig{}, err
	}
	return out, nil
}

// checkConnectorReaders rejects connectors that a pipeline writes to but no
// pipeline reads. A connector send blocks until it is read, so such a
// connector would stall the writing pipeline and every pipeline sharing its
// sources.
func checkConnectorReaders(g GraphConfig) error {
	read := map[ID]bool{}
	var written []ID
	for _, p := range g.Pipelines {
		for _, ref := range p.Sources {
			read[ref] = true
		}
		for _, ref := range p.Sinks {
			if _, ok := g.Connectors[ref]; ok {
				written = append(written, ref)
			}
		}
	}
	slices.Sort(written)
	for _, id := range written {
		if !read[id] {
			return fmt.Errorf("connector %q is written but no pipeline reads it", id)
		}
	}
	return nil
}
