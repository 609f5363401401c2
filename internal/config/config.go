// Package config loads the client settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvServer  = "TOP_REPOS_SERVER"
	EnvTimeout = "TOP_REPOS_TIMEOUT"

	DefaultServer      = "http://localhost:8000"
	DefaultFormat      = "text"
	DefaultConcurrency = 4
)

// Config holds the client configuration.
type Config struct {
	// Server is the base URL that serves the /api/repos endpoints.
	Server string `yaml:"server"`
	// Timeout bounds each HTTP request. Zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout"`
	// Format is the output format: text, json or html.
	Format string `yaml:"format"`
	// Concurrency bounds parallel activity requests when loading all repositories.
	Concurrency int `yaml:"concurrency"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:      DefaultServer,
		Format:      DefaultFormat,
		Concurrency: DefaultConcurrency,
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports values the client cannot run with.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.Concurrency)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServer); ok && v != "" {
		c.Server = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}
