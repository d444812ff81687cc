package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Database  DatabaseConfig  `yaml:"database"`
	Query     QueryConfig     `yaml:"query"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string          `yaml:"addr"`
	ReadTimeout  Duration        `yaml:"read_timeout"`
	WriteTimeout Duration        `yaml:"write_timeout"`
	IdleTimeout  Duration        `yaml:"idle_timeout"`
	CORSOrigins  []string        `yaml:"cors_origins,omitempty"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles API requests. Zero requests per second disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Enabled reports whether requests are throttled
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// Source names where graph snapshots are read from
type Source string

const (
	SourceBuiltin Source = "builtin" // embedded seed dataset
	SourceFile    Source = "file"    // JSON or YAML file at snapshot.path
	SourceSQLite  Source = "sqlite"  // snapshot tables in database.path
)

// Valid reports whether s names a known source
func (s Source) Valid() bool {
	switch s {
	case SourceBuiltin, SourceFile, SourceSQLite:
		return true
	default:
		return false
	}
}

// SnapshotConfig selects the snapshot source
type SnapshotConfig struct {
	Source Source `yaml:"source"`
	Path   string `yaml:"path,omitempty"`
	Watch  bool   `yaml:"watch"`

	// Debounce is how long the watcher waits for a burst of writes to settle
	Debounce Duration `yaml:"debounce"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// QueryConfig holds query defaults and bounds
type QueryConfig struct {
	DefaultDepth          int  `yaml:"default_depth"`
	MaxDepth              int  `yaml:"max_depth"`
	ResultCap             int  `yaml:"result_cap"`
	SearchLimit           int  `yaml:"search_limit"`
	MaxSearchLimit        int  `yaml:"max_search_limit"`
	MaxNodeLimit          int  `yaml:"max_node_limit"`
	CaseInsensitiveSearch bool `yaml:"case_insensitive_search"`
	StepBudget            int  `yaml:"step_budget"` // 0 = unbounded
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// TelemetryConfig toggles metrics and tracing
type TelemetryConfig struct {
	Metrics bool   `yaml:"metrics"`
	Tracing string `yaml:"tracing"` // none, stdout
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
