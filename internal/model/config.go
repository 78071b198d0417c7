package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete chronicle configuration
type Config struct {
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Display      DisplayConfig      `yaml:"display" mapstructure:"display"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// SourceConfig controls how the raw dataset is retrieved
type SourceConfig struct {
	Location      string        `yaml:"location" mapstructure:"location"` // Default URL or path
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=1,lte=10"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTMLTable     bool          `yaml:"html_table" mapstructure:"html_table"` // Source is an HTML page with a table
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy" validate:"omitempty,url"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls caching of raw dataset text
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir" validate:"required_if=Enabled true"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl" validate:"gte=0"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl" validate:"gte=0"`
}

// DisplayConfig controls pagination of the record table
type DisplayConfig struct {
	PageSize  int   `yaml:"page_size" mapstructure:"page_size" validate:"gt=0"`
	PageSizes []int `yaml:"page_sizes" mapstructure:"page_sizes" validate:"dive,gt=0"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
}

// RateLimitingConfig controls per-host request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=1"`
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=openai ollama"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "chronicle-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".chronicle", "cache")
	}

	return &Config{
		Source: SourceConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Chronicle/0.1 (+https://github.com/ppiankov/chronicle)",
			MaxBodyBytes:  5_000_000,
			MaxRetries:    3,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Display: DisplayConfig{
			PageSize:  10,
			PageSizes: []int{5, 10, 25},
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for out-of-range values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
