package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source types understood by the collector.
const (
	SourceTypeHTTPCSV    = "http_csv"
	SourceTypeHTTPJSON   = "http_json"
	SourceTypeSQLite     = "sqlite"
	SourceTypeClickHouse = "clickhouse"
)

var (
	errSourceNameRequired    = errors.New("source name is required")
	errSourceTypeRequired    = errors.New("source type is required")
	errSourceTypeUnknown     = errors.New("unknown source type")
	errSourceNameDuplicate   = errors.New("duplicate source name")
	errSourceMetricsRequired = errors.New("source has no metrics")
	errSourceDatabaseMissing = errors.New("sqlite source missing database path")
	errSourceFieldMissing    = errors.New("http_json source missing field path")
	errMetricNameEmpty       = errors.New("metric name is empty")
	errMetricQueryEmpty      = errors.New("metric query is empty")
)

// Sources describes the metric sources the collector gathers from.
type Sources struct {
	Description string    `yaml:"description"`
	Sources     []*Source `yaml:"sources"`
}

// Source defines one metric source. Metrics maps metric name to the
// type-specific query: a URL for the http types, a scalar SQL statement
// for the database types.
type Source struct {
	Name     string            `yaml:"name"`
	Type     string            `yaml:"type"`
	Database string            `yaml:"database,omitempty"`
	Field    string            `yaml:"field,omitempty"`
	Metrics  map[string]string `yaml:"metrics"`
}

// LoadSources reads and validates a source definitions file.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}

	var defs Sources
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	if err := defs.validate(); err != nil {
		return nil, fmt.Errorf("validating sources file %s: %w", path, err)
	}

	return &defs, nil
}

// validate ensures every source definition is usable by the collector.
func (s *Sources) validate() error {
	seen := make(map[string]bool, len(s.Sources))

	for i, src := range s.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w at index %d", errSourceNameRequired, i)
		}

		if seen[src.Name] {
			return fmt.Errorf("%w: %s", errSourceNameDuplicate, src.Name)
		}
		seen[src.Name] = true

		if src.Type == "" {
			return fmt.Errorf("%w: %s", errSourceTypeRequired, src.Name)
		}

		switch src.Type {
		case SourceTypeHTTPCSV, SourceTypeHTTPJSON, SourceTypeSQLite, SourceTypeClickHouse:
		default:
			return fmt.Errorf("%w: %s (source %s)", errSourceTypeUnknown, src.Type, src.Name)
		}

		if src.Type == SourceTypeSQLite && src.Database == "" {
			return fmt.Errorf("%w: %s", errSourceDatabaseMissing, src.Name)
		}

		if src.Type == SourceTypeHTTPJSON && src.Field == "" {
			return fmt.Errorf("%w: %s", errSourceFieldMissing, src.Name)
		}

		if len(src.Metrics) == 0 {
			return fmt.Errorf("%w: %s", errSourceMetricsRequired, src.Name)
		}

		for name, query := range src.Metrics {
			if name == "" {
				return fmt.Errorf("%w in source %s", errMetricNameEmpty, src.Name)
			}
			if query == "" {
				return fmt.Errorf("%w: %s (source %s)", errMetricQueryEmpty, name, src.Name)
			}
		}
	}

	return nil
}
