package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Feed sink names
const (
	FeedSinkConsole = "console"
	FeedSinkDiscord = "discord"
)

// Config holds all application configuration
type Config struct {
	// Logging
	LogLevel string

	// Card configuration
	AcceptedCardNumbers []string // Card numbers the processor accepts; empty means the built-in set

	// Feed display
	FeedSink             string // "console" or "discord"
	DiscordToken         string
	DiscordFeedChannelID string // Channel rendered feeds are posted to

	// NATS configuration
	NATSEnabled    bool
	NATSServers    string // NATS server addresses (comma-separated)
	NATSStreamName string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads the configuration from the environment without touching the global instance
func Load() (*Config, error) {
	return load()
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		AcceptedCardNumbers: splitList(os.Getenv("ACCEPTED_CARD_NUMBERS")),

		FeedSink:             getEnvWithDefault("FEED_SINK", FeedSinkConsole),
		DiscordToken:         os.Getenv("DISCORD_TOKEN"),
		DiscordFeedChannelID: os.Getenv("DISCORD_FEED_CHANNEL_ID"),

		NATSEnabled:    getBoolEnv("NATS_ENABLED", false),
		NATSServers:    getEnvWithDefault("NATS_SERVERS", "nats://localhost:4222"),
		NATSStreamName: getEnvWithDefault("NATS_STREAM_NAME", "minivenmo_events"),

		OTelEnabled:              getBoolEnv("OTEL_ENABLED", false),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "minivenmo"),
		OTelExportIntervalMillis: 30000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the selected integrations have what they need
func (c *Config) Validate() error {
	switch c.FeedSink {
	case FeedSinkConsole:
	case FeedSinkDiscord:
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required when FEED_SINK=discord")
		}
		if c.DiscordFeedChannelID == "" {
			return fmt.Errorf("DISCORD_FEED_CHANNEL_ID is required when FEED_SINK=discord")
		}
	default:
		return fmt.Errorf("unknown FEED_SINK: %s", c.FeedSink)
	}

	if c.NATSEnabled && strings.TrimSpace(c.NATSServers) == "" {
		return fmt.Errorf("NATS_SERVERS cannot be empty when NATS_ENABLED=true")
	}

	switch c.OTelExporterType {
	case "console", "otlp", "none":
	default:
		return fmt.Errorf("unknown OTEL_EXPORTER_TYPE: %s", c.OTelExporterType)
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		LogLevel:                 "debug",
		FeedSink:                 FeedSinkConsole,
		NATSStreamName:           "minivenmo_events",
		OTelExporterType:         "none",
		OTelServiceName:          "minivenmo-test",
		OTelExportIntervalMillis: 1000,
	}
}
