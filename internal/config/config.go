// Package config provides environment-based configuration with
// sensible defaults. A .env file in the working directory is loaded
// when present; real environment variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1; the
	// command surface is a local, single-user API)
	Host string

	// Port is the port to listen on (default: 8080)
	Port int

	// ReadTimeout is the maximum duration for reading a request
	// (default: 15s)
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response
	// (default: 0, queries over large datasets take as long as they
	// take)
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	// (default: info)
	Level string

	// Format is the log format: text or json (default: text)
	Format string
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment, applying defaults
// for anything unset. Malformed values fail fast rather than being
// silently replaced.
func Load() (*Config, error) {
	// Missing .env is fine; it is an optional convenience.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         envString("SERVER_HOST", "127.0.0.1"),
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.Server.Port, err = envInt("SERVER_PORT", cfg.Server.Port); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = envDuration("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
