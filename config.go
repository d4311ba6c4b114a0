package main

import (
	"time"

	"github.com/corvomail/forwardd/helpers"
	"github.com/corvomail/forwardd/logger"
)

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`
	TLSMode    bool   `toml:"tls"`
	LogQueries bool   `toml:"log_queries"`
}

// HTTPAPIConfig holds the admin HTTP API configuration.
type HTTPAPIConfig struct {
	Addr            string   `toml:"addr"`
	APIKey          string   `toml:"api_key"`
	AllowedHosts    []string `toml:"allowed_hosts"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
	TLS             bool     `toml:"tls"`
	TLSCertFile     string   `toml:"tls_cert_file"`
	TLSKeyFile      string   `toml:"tls_key_file"`
}

// GetShutdownTimeout parses the graceful shutdown timeout.
func (c HTTPAPIConfig) GetShutdownTimeout() (time.Duration, error) {
	return helpers.ParseDuration(c.ShutdownTimeout)
}

// Config holds all configuration for the application.
type Config struct {
	Logging  logger.LoggingConfig `toml:"logging"`
	Database DatabaseConfig       `toml:"database"`
	HTTPAPI  HTTPAPIConfig        `toml:"http_api"`
}

// newDefaultConfig returns a Config with application defaults.
func newDefaultConfig() Config {
	return Config{
		Logging: logger.LoggingConfig{
			Output: "stderr",
			Format: "console",
			Level:  "info",
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: "5432",
			User: "postgres",
			Name: "forwardd",
		},
		HTTPAPI: HTTPAPIConfig{
			Addr:            "localhost:8080",
			ShutdownTimeout: "5s",
		},
	}
}
