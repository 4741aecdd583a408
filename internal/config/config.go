//nolint:tagliatelle // superior snake-case yo.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fjordlys/tidelight/internal/fetch"
	"github.com/fjordlys/tidelight/internal/scheduler"
)

// defaultAPIURL is the Norwegian Mapping Authority tide prediction API.
const defaultAPIURL = "https://vannstand.kartverket.no/tideapi.php"

// Config represents the complete daemon configuration. The device
// configuration (location, strip, pattern) lives in its own JSON document
// managed at runtime; this file only holds how the daemon itself runs.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
	Tide   TideConfig   `yaml:"tide"`
}

// ServerConfig contains the local HTTP API settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// PathsConfig holds the on-disk locations of the daemon's state.
type PathsConfig struct {
	DeviceConfig string `yaml:"device_config"`
	TideDB       string `yaml:"tide_db"`
}

// TideConfig holds the tide API and scheduling settings.
type TideConfig struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PrefetchDays   int           `yaml:"prefetch_days"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	RetryInterval  time.Duration `yaml:"retry_interval"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration and sets defaults.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if c.Paths.DeviceConfig == "" {
		c.Paths.DeviceConfig = "tidelight.json"
	}

	if c.Paths.TideDB == "" {
		c.Paths.TideDB = "tidelight.db"
	}

	if c.Tide.APIURL == "" {
		c.Tide.APIURL = defaultAPIURL
	}

	// The scheduler and fetch client validate their own slices of the
	// tide section.
	schedCfg := c.SchedulerConfig()
	if err := schedCfg.Validate(); err != nil {
		return fmt.Errorf("tide: %w", err)
	}

	fetchCfg := c.FetchConfig()
	if err := fetchCfg.Validate(); err != nil {
		return fmt.Errorf("tide: %w", err)
	}

	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port == 0 {
		c.Port = 8080
	}

	if c.Host == "" {
		c.Host = "0.0.0.0"
	}

	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}

	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// SchedulerConfig returns the scheduler's slice of the tide section.
func (c *Config) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		PrefetchDays:   c.Tide.PrefetchDays,
		UpdateInterval: c.Tide.UpdateInterval,
		RetryInterval:  c.Tide.RetryInterval,
	}
}

// FetchConfig returns the fetch client's slice of the tide section.
func (c *Config) FetchConfig() fetch.Config {
	return fetch.Config{
		BaseURL:        c.Tide.APIURL,
		RequestTimeout: c.Tide.RequestTimeout,
	}
}
