// Package config handles loading and parsing of s3mcp configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the s3mcp server.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Logging LoggingConfig `yaml:"logging"`
	Debug   DebugConfig   `yaml:"debug"`
}

// AWSConfig holds the credentials and region used to construct the S3 client.
type AWSConfig struct {
	// AccessKeyID is the AWS access key. When empty, the SDK's default
	// credential chain is used.
	AccessKeyID string `yaml:"access_key_id"`
	// SecretAccessKey is the AWS secret key paired with AccessKeyID.
	SecretAccessKey string `yaml:"secret_access_key"`
	// Region is the AWS region the client is configured with.
	Region string `yaml:"region"`
	// EndpointURL is an optional custom endpoint for S3-compatible services
	// (MinIO, R2, etc.).
	EndpointURL string `yaml:"endpoint_url"`
	// UsePathStyle forces path-style addressing, required by most
	// S3-compatible services.
	UsePathStyle bool `yaml:"use_path_style"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is the log output format: text, json.
	Format string `yaml:"format"`
}

// DebugConfig holds settings for the optional debug HTTP listener.
type DebugConfig struct {
	// Addr is the listen address for /healthz and /metrics
	// (e.g., "127.0.0.1:9090"). Empty disables the listener.
	Addr string `yaml:"addr"`
}

// Load reads a YAML configuration file from the given path and returns a
// parsed Config. A missing file is not an error: the server commonly runs
// with defaults plus environment variables only. Environment variables
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION) take precedence
// over file values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnv overlays the three credential/region inputs from the process
// environment. Environment values win over file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.AWS.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.AWS.SecretAccessKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	}
}

// applyDefaults fills in any fields that are still at their zero value
// after YAML unmarshaling and env overlay.
func applyDefaults(cfg *Config) {
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
