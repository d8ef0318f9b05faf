package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Scan     ScanConfig     `yaml:"scan"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type EndpointConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ScanConfig struct {
	BatchSize        int      `yaml:"batch_size"`
	DefaultVariables []string `yaml:"default_variables"`
	DefaultLevels    []string `yaml:"default_levels"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig configures the optional row sink. ConnString empty means
// no database sink is wired.
type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint.BaseURL == "" {
		c.Endpoint.BaseURL = "https://nomads.ncep.noaa.gov/cgi-bin/filter_gfs_0p25.pl"
	}
	if c.Endpoint.Timeout == 0 {
		c.Endpoint.Timeout = 2 * time.Minute
	}
	if c.Scan.BatchSize == 0 {
		c.Scan.BatchSize = 2048
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Postgres.Table == "" {
		c.Postgres.Table = "forecast_rows"
	}
}

func (c *Config) validate() error {
	if c.Endpoint.BaseURL == "" {
		return fmt.Errorf("endpoint.base_url is required")
	}
	if c.Scan.BatchSize <= 0 {
		return fmt.Errorf("scan.batch_size must be > 0")
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}
