// Package config loads scrollock.yaml, the file-based configuration for
// the scrollock server CLI.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scrollock-dev/scrollock/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "scrollock.yaml"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"
)

// Config represents the complete scrollock.yaml configuration.
type Config struct {
	// Address is the listen address (e.g., ":8080").
	Address string `yaml:"address,omitempty"`

	// Session contains session configuration.
	Session SessionConfig `yaml:"session,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `yaml:"tracing,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `yaml:"log,omitempty"`

	// DevMode disables origin checking. Never use in production.
	DevMode bool `yaml:"devMode,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SessionConfig contains session settings.
type SessionConfig struct {
	// ResumeWindow is how long a disconnected session remains resumable
	// (e.g., "30s", "5m").
	ResumeWindow string `yaml:"resumeWindow,omitempty"`

	// IdleTimeout closes sessions with no client activity (e.g., "5m").
	IdleTimeout string `yaml:"idleTimeout,omitempty"`

	// MaxSessions is the maximum number of concurrent sessions.
	// 0 means no limit.
	MaxSessions int `yaml:"maxSessions,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics middleware is installed.
	Enabled bool `yaml:"enabled,omitempty"`

	// Namespace is the metric name prefix. Default: "scrollock".
	Namespace string `yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled controls whether the tracing middleware is installed.
	Enabled bool `yaml:"enabled,omitempty"`

	// TracerName overrides the tracer name. Default: "scrollock".
	TracerName string `yaml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Address: DefaultAddress,
		Session: SessionConfig{
			ResumeWindow: "5m",
			IdleTimeout:  "5m",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "scrollock",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for scrollock.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config with an explicit path")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Session.ResumeWindow == "" {
		c.Session.ResumeWindow = "5m"
	}
	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = "5m"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "scrollock"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Session.ResumeWindow); err != nil {
		return errors.New("E102").
			WithDetail("session.resumeWindow is not a valid duration: " + c.Session.ResumeWindow).
			WithSuggestion(`Use a Go duration string like "30s" or "5m"`)
	}
	if _, err := time.ParseDuration(c.Session.IdleTimeout); err != nil {
		return errors.New("E102").
			WithDetail("session.idleTimeout is not a valid duration: " + c.Session.IdleTimeout).
			WithSuggestion(`Use a Go duration string like "30s" or "5m"`)
	}
	if c.Session.MaxSessions < 0 {
		return errors.New("E102").
			WithDetail("session.maxSessions must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E102").
			WithDetail("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E102").
			WithDetail("log.format must be text or json")
	}
	return nil
}

// ResumeWindow returns the parsed resume window duration.
func (c *Config) ResumeWindow() time.Duration {
	d, err := time.ParseDuration(c.Session.ResumeWindow)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// IdleTimeout returns the parsed idle timeout duration.
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Session.IdleTimeout)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// Save writes the configuration to its original path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "config has no path; use SaveTo")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the one containing
// scrollock.yaml, or returns an error if none is found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
