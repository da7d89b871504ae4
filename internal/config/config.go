package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/redis/go-redis/v9"
)

// Config holds all configuration for the render worker and CLI
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"renderer-1"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"resume.render"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"resume-renderers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"resume.rendered"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`
	ArtifactTTL   time.Duration `env:"ARTIFACT_TTL" envDefault:"24h"`

	// Rendering configuration
	TemplateDir     string `env:"TEMPLATE_DIR" envDefault:""`
	DefaultTemplate string `env:"DEFAULT_TEMPLATE" envDefault:"modern"`
	OutputDir       string `env:"OUTPUT_DIR" envDefault:"output"`
	TemplateLint    bool   `env:"TEMPLATE_LINT" envDefault:"false"`
	EscapeHTML      bool   `env:"ESCAPE_HTML" envDefault:"false"`
	MaxRewrites     int    `env:"MAX_REWRITES" envDefault:"10000"`
	MaxDepth        int    `env:"MAX_DEPTH" envDefault:"64"`

	// PDF configuration
	ChromeBin   string        `env:"CHROME_BIN" envDefault:""`
	PDFTimeout  time.Duration `env:"PDF_TIMEOUT" envDefault:"30s"`
	PDFPageSize string        `env:"PDF_PAGE_SIZE" envDefault:"A4"`
	PDFMargin   string        `env:"PDF_MARGIN" envDefault:"10mm"`

	// Health check configuration
	HealthPort int `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.ResultStream == c.StreamKey {
		return fmt.Errorf("RESULT_STREAM must differ from STREAM_KEY")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.ArtifactTTL < 0 {
		return fmt.Errorf("ARTIFACT_TTL must be non-negative")
	}

	if c.DefaultTemplate == "" {
		return fmt.Errorf("DEFAULT_TEMPLATE is required")
	}

	if c.MaxRewrites <= 0 {
		return fmt.Errorf("MAX_REWRITES must be positive")
	}

	if c.MaxDepth <= 0 {
		return fmt.Errorf("MAX_DEPTH must be positive")
	}

	if c.PDFTimeout <= 0 {
		return fmt.Errorf("PDF_TIMEOUT must be positive")
	}

	if !isValidPageSize(c.PDFPageSize) {
		return fmt.Errorf("PDF_PAGE_SIZE must be one of: A3, A4, A5, LETTER, LEGAL")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if !IsValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// IsValidLogLevel checks if the log level is valid
func IsValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

func isValidPageSize(size string) bool {
	switch strings.ToUpper(size) {
	case "A3", "A4", "A5", "LETTER", "LEGAL":
		return true
	}
	return false
}

// RedisOptions returns Redis client options
func (c *Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, ConsumerGroup=%s, "+
			"ResultStream=%s, TemplateDir=%s, DefaultTemplate=%s, OutputDir=%s, "+
			"EscapeHTML=%v, PDFPageSize=%s, HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.ResultStream,
		c.TemplateDir,
		c.DefaultTemplate,
		c.OutputDir,
		c.EscapeHTML,
		c.PDFPageSize,
		c.HealthPort,
		c.LogLevel,
	)
}
