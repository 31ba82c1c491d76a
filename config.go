package tasksched

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/service/meta"
	"github.com/viant/tasksched/service/server"
)

// Store kinds
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
)

// Config is a serialisable representation of the service configuration. The
// zero-value of nested fields inherits package defaults.
type Config struct {
	Server  server.Config `json:"server" yaml:"server"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// StoreConfig selects entity persistence
type StoreConfig struct {
	Kind    string `json:"kind" yaml:"kind"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// TracingConfig controls OpenTelemetry export
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// MetricsConfig controls the prometheus endpoint, a blank address disables it
type MetricsConfig struct {
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DefaultConfig returns a Config populated with default values
func DefaultConfig() *Config {
	return &Config{
		Server: server.DefaultConfig(),
		Store:  StoreConfig{Kind: StoreMemory},
		Tracing: TracingConfig{
			ServiceName:    "tasksched",
			ServiceVersion: "1.0.0",
		},
		Metrics: MetricsConfig{Namespace: "tasksched"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	c.Server.Init()
	if err := c.Server.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Store.Kind) {
	case "", StoreMemory:
	case StoreFS:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for %v store", StoreFS)
		}
	default:
		return fmt.Errorf("unsupported store.kind: %v", c.Store.Kind)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log.format: %v", c.Log.Format)
	}
	return nil
}

// LoadConfig loads a YAML or JSON config over defaults
func LoadConfig(ctx context.Context, location string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, location, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
