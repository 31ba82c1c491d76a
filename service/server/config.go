package server

import (
	"fmt"
	"time"
)

// Config represents server configuration
type Config struct {
	// Address is the TCP listen address
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// Workers is the number of connection handling workers
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
	// PollInterval bounds how long accept blocks before checking for shutdown
	PollInterval time.Duration `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
	// ReadTimeout is the per-connection inactivity deadline
	ReadTimeout time.Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	// MaxRequestBytes limits the size of a request line
	MaxRequestBytes int `json:"maxRequestBytes,omitempty" yaml:"maxRequestBytes,omitempty"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         ":34567",
		Workers:         10,
		PollInterval:    2 * time.Second,
		ReadTimeout:     10 * time.Second,
		MaxRequestBytes: 1 << 20,
	}
}

// Init fills unset fields with defaults
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.MaxRequestBytes == 0 {
		c.MaxRequestBytes = defaults.MaxRequestBytes
	}
}

// Validate checks configuration
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("server: workers must be positive, got %d", c.Workers)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("server: pollInterval must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("server: readTimeout must be positive")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("server: maxRequestBytes must be positive")
	}
	return nil
}
