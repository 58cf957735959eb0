package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"api-batch-runner/internal/executor"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Environment Environment     `yaml:"environment"`
	Request     RequestConfig   `yaml:"request"`
	Reporting   ReportingConfig `yaml:"reporting"`
}

// Environment holds the target environment configuration
type Environment struct {
	BaseURL string            `yaml:"base_url"`
	Auth    AuthConfig        `yaml:"auth"`
	Headers []executor.Header `yaml:"headers"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type  string `yaml:"type"`
	Token string `yaml:"token"`
}

// RequestConfig holds per-request execution configuration
type RequestConfig struct {
	Timeout int `yaml:"timeout"` // seconds, 0 means the default
}

// ReportingConfig holds reporting configuration
type ReportingConfig struct {
	Format    []string `yaml:"format"`
	OutputDir string   `yaml:"output_dir"`
	Detailed  bool     `yaml:"detailed"`
}

// Load loads the configuration from a YAML file. A missing path falls
// back to config/config.yaml; the auth token can be overridden through
// the AUTH_TOKEN environment variable.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join("config", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		cfg.Environment.Auth.Token = token
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when
// no config file is present and everything comes from flags
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Request.Timeout == 0 {
		c.Request.Timeout = 30
	}
	if len(c.Reporting.Format) == 0 {
		c.Reporting.Format = []string{"csv"}
	}
	if c.Reporting.OutputDir == "" {
		c.Reporting.OutputDir = "reports"
	}
}

// RunConfig snapshots the environment into an immutable execution
// configuration for one run
func (c *Config) RunConfig() executor.RunConfig {
	return executor.RunConfig{
		BaseURL: c.Environment.BaseURL,
		Token:   c.Environment.Auth.Token,
		Headers: append([]executor.Header(nil), c.Environment.Headers...),
		Timeout: time.Duration(c.Request.Timeout) * time.Second,
	}
}
