// Package config provides configuration loading and management for streamdoc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete streamdoc configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Docs      DocsConfig      `yaml:"docs"`
	Validator ValidatorConfig `yaml:"validator"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Events    EventsConfig    `yaml:"events"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Address is the listen address (default: 127.0.0.1:8750)
	Address string `yaml:"address"`
	// MaxBodyBytes caps the size of request bodies
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// Endpoint is an OpenAI-compatible API endpoint (default: http://localhost:11434/v1)
	Endpoint string `yaml:"endpoint"`
	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `yaml:"api_key_env"`
	// Chat is the chat-completion model name
	Chat string `yaml:"chat"`
	// Embedding is the embedding model name
	Embedding string `yaml:"embedding"`
	// Temperature controls randomness (0.0-1.0, default: 0.2)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// DocsConfig configures the documentation index
type DocsConfig struct {
	// Paths are doublestar globs of markdown documentation to index
	Paths []string `yaml:"paths"`
	// Watch enables reindexing when indexed files change
	Watch bool `yaml:"watch"`
	// TopK is the number of chunks retrieved per question
	TopK int `yaml:"top_k"`
}

// ValidatorConfig configures the external authoritative validator
type ValidatorConfig struct {
	// Endpoint is the authoritative lint endpoint (empty = local only)
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds each call; the validator fails open on expiry
	Timeout time.Duration `yaml:"timeout"`
}

// AnalyticsConfig configures usage analytics storage
type AnalyticsConfig struct {
	// Path is the SQLite database file (empty = analytics disabled)
	Path string `yaml:"path"`
	// FlushInterval is how often buffered events are written
	FlushInterval time.Duration `yaml:"flush_interval"`
	// BufferSize is the in-memory event buffer capacity
	BufferSize int `yaml:"buffer_size"`
}

// EventsConfig configures NATS event publishing
type EventsConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// SubjectPrefix prefixes all published subjects (default: streamdoc)
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         "127.0.0.1:8750",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Endpoint:    "http://localhost:11434/v1",
			APIKeyEnv:   "STREAMDOC_API_KEY",
			Chat:        "qwen2.5-coder:32b",
			Embedding:   "nomic-embed-text",
			Temperature: 0.2,
			Timeout:     2 * time.Minute,
		},
		Docs: DocsConfig{
			Paths: []string{"docs/**/*.md"},
			Watch: false,
			TopK:  6,
		},
		Validator: ValidatorConfig{
			Endpoint: "",
			Timeout:  3 * time.Second,
		},
		Analytics: AnalyticsConfig{
			Path:          "",
			FlushInterval: 5 * time.Second,
			BufferSize:    256,
		},
		Events: EventsConfig{
			URL:           "",
			SubjectPrefix: "streamdoc",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Model.Endpoint == "" {
		return fmt.Errorf("model.endpoint is required")
	}
	if c.Model.Chat == "" {
		return fmt.Errorf("model.chat is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Docs.TopK <= 0 {
		return fmt.Errorf("docs.top_k must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Address != "" {
		c.Server.Address = other.Server.Address
	}
	if other.Server.MaxBodyBytes != 0 {
		c.Server.MaxBodyBytes = other.Server.MaxBodyBytes
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}

	// Model
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.APIKeyEnv != "" {
		c.Model.APIKeyEnv = other.Model.APIKeyEnv
	}
	if other.Model.Chat != "" {
		c.Model.Chat = other.Model.Chat
	}
	if other.Model.Embedding != "" {
		c.Model.Embedding = other.Model.Embedding
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Docs
	if len(other.Docs.Paths) > 0 {
		c.Docs.Paths = other.Docs.Paths
	}
	if other.Docs.Watch {
		c.Docs.Watch = true
	}
	if other.Docs.TopK != 0 {
		c.Docs.TopK = other.Docs.TopK
	}

	// Validator
	if other.Validator.Endpoint != "" {
		c.Validator.Endpoint = other.Validator.Endpoint
	}
	if other.Validator.Timeout != 0 {
		c.Validator.Timeout = other.Validator.Timeout
	}

	// Analytics
	if other.Analytics.Path != "" {
		c.Analytics.Path = other.Analytics.Path
	}
	if other.Analytics.FlushInterval != 0 {
		c.Analytics.FlushInterval = other.Analytics.FlushInterval
	}
	if other.Analytics.BufferSize != 0 {
		c.Analytics.BufferSize = other.Analytics.BufferSize
	}

	// Events
	if other.Events.URL != "" {
		c.Events.URL = other.Events.URL
	}
	if other.Events.SubjectPrefix != "" {
		c.Events.SubjectPrefix = other.Events.SubjectPrefix
	}
}
