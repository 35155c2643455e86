package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// RoomTTL is how long a room with no connections survives after its last
	// activity.
	RoomTTL      time.Duration `mapstructure:"room_ttl" yaml:"room_ttl"`
	ReapInterval time.Duration `mapstructure:"reap_interval" yaml:"reap_interval"`

	MaxMessageBytes    int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	EventBuffer        int      `mapstructure:"event_buffer" yaml:"event_buffer"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":3001",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		RoomTTL:            2 * time.Minute,
		ReapInterval:       30 * time.Second,
		MaxMessageBytes:    1 << 16,
		RateLimitPerMinute: 120,
		EventBuffer:        32,
		AllowedOrigins:     []string{"*"},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.RoomTTL != 0 {
		c.RoomTTL = other.RoomTTL
	}
	if other.ReapInterval != 0 {
		c.ReapInterval = other.ReapInterval
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = other.RateLimitPerMinute
	}
	if other.EventBuffer != 0 {
		c.EventBuffer = other.EventBuffer
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("config: addr is required")
	case c.RoomTTL <= 0:
		return fmt.Errorf("config: room_ttl must be positive, got %s", c.RoomTTL)
	case c.ReapInterval <= 0:
		return fmt.Errorf("config: reap_interval must be positive, got %s", c.ReapInterval)
	case c.MaxMessageBytes <= 0:
		return fmt.Errorf("config: max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	case c.RateLimitPerMinute < 0:
		return fmt.Errorf("config: rate_limit_per_minute must not be negative, got %d", c.RateLimitPerMinute)
	case c.EventBuffer <= 0:
		return fmt.Errorf("config: event_buffer must be positive, got %d", c.EventBuffer)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json", "":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}
