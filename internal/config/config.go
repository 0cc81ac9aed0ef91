package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Faucet   FaucetConfig
	Metrics  MetricsConfig
	Ledger   LedgerConfig
	Tracing  TracingConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for operator endpoints
}

// FaucetConfig controls the coin faucet used for development and demos
type FaucetConfig struct {
	Enabled   bool
	MaxAmount uint64 // largest value a single mint may issue
}

type MetricsConfig struct {
	Enabled bool
}

type LedgerConfig struct {
	// CapabilityFilterSize is the number of capabilities the token prefilter
	// is sized for before its false-positive rate starts to climb.
	CapabilityFilterSize uint
}

// Trace exporters selectable through TRACING_EXPORTER
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// TracingConfig selects where OpenTelemetry spans are exported
type TracingConfig struct {
	Exporter     string // none, stdout or otlp
	ServiceName  string
	OTLPEndpoint string // host:port of an OTLP/HTTP collector
	OTLPInsecure bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory, when present, fills in variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Faucet: FaucetConfig{
			Enabled:   getEnvAsBool("FAUCET_ENABLED", false),
			MaxAmount: getEnvAsUint("FAUCET_MAX_AMOUNT", 1_000_000),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		Ledger: LedgerConfig{
			CapabilityFilterSize: uint(getEnvAsUint("CAPABILITY_FILTER_SIZE", 100_000)),
		},
		Tracing: TracingConfig{
			Exporter:     strings.ToLower(getEnv("TRACING_EXPORTER", TraceExporterNone)),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "restaurant-ledger"),
			OTLPEndpoint: getEnv("TRACING_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure: getEnvAsBool("TRACING_OTLP_INSECURE", true),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Faucet.Enabled {
		if len(c.Auth.APIKeys) == 0 {
			return fmt.Errorf("at least one API key must be configured when the faucet is enabled")
		}
		if c.Faucet.MaxAmount == 0 {
			return fmt.Errorf("FAUCET_MAX_AMOUNT must be positive")
		}
	}

	if c.Ledger.CapabilityFilterSize == 0 {
		return fmt.Errorf("CAPABILITY_FILTER_SIZE must be positive")
	}

	switch c.Tracing.Exporter {
	case "", TraceExporterNone, TraceExporterStdout:
	case TraceExporterOTLP:
		if c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("TRACING_OTLP_ENDPOINT is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("invalid tracing exporter: %s (must be none, stdout, or otlp)", c.Tracing.Exporter)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
