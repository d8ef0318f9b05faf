package gribflow

import "github.com/onnimonni/gribflow/internal/app/config"

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// EndpointConfig points the fetcher at the forecast API.
	EndpointConfig = config.EndpointConfig
	// ScanConfig tunes batch size and default variable/level flags.
	ScanConfig = config.ScanConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// PostgresConfig configures the optional row sink.
	PostgresConfig = config.PostgresConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
