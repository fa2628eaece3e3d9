package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulule/limiter/v3"
	"gopkg.in/yaml.v3"
)

// Event sinks
const (
	EventSinkLog      = "log"
	EventSinkRabbitMQ = "rabbitmq"
	EventSinkRedis    = "redis"
	EventSinkNATS     = "nats"
)

// Config holds application configuration
type Config struct {
	ServerPort      string `yaml:"server_port"`
	FrontendURL     string `yaml:"frontend_url"`
	EnableHSTS      bool   `yaml:"enable_hsts"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	LogFormat       string `yaml:"log_format"`
	RateLimit       string `yaml:"rate_limit"`
	MaxRequestBytes int    `yaml:"max_request_bytes"`
	RequestTimeout  int    `yaml:"request_timeout_seconds"`
	RedisURL        string `yaml:"redis_url"`
	EventSink       string `yaml:"event_sink"`
	RabbitMQURL     string `yaml:"rabbitmq_url"`
	NATSURL         string `yaml:"nats_url"`
	EventChannel    string `yaml:"event_channel"`
	StreakTimezone  string `yaml:"streak_timezone"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
	OpenAPIPath     string `yaml:"openapi_path"`
	MetricsEnabled  bool   `yaml:"metrics_enabled"`

	location *time.Location
}

func defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		FrontendURL:     "http://localhost:3000",
		LogFormat:       "json",
		RateLimit:       "20-S",
		MaxRequestBytes: 1 << 20,
		RequestTimeout:  30,
		EventSink:       EventSinkLog,
		StreakTimezone:  "UTC",
		OpenAPIPath:     "api/openapi/openapi.yaml",
		MetricsEnabled:  true,
	}
}

// Load loads configuration from the optional CONFIG_FILE and then from environment variables.
// Environment variables win over file values.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.MaxRequestBytes = getEnvInt("MAX_REQUEST_BYTES", cfg.MaxRequestBytes)
	cfg.RequestTimeout = getEnvInt("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeout)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.EventSink = strings.ToLower(getEnv("EVENT_SINK", cfg.EventSink))
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.EventChannel = getEnv("EVENT_CHANNEL", cfg.EventChannel)
	cfg.StreakTimezone = getEnv("STREAK_TIMEZONE", cfg.StreakTimezone)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.OpenAPIPath = getEnv("OPENAPI_PATH", cfg.OpenAPIPath)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.EventSink {
	case EventSinkLog:
	case EventSinkRabbitMQ:
		if c.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is required when EVENT_SINK is %q", EventSinkRabbitMQ)
		}
	case EventSinkRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when EVENT_SINK is %q", EventSinkRedis)
		}
	case EventSinkNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENT_SINK is %q", EventSinkNATS)
		}
	default:
		return fmt.Errorf("invalid EVENT_SINK: %s (must be 'log', 'rabbitmq', 'redis', or 'nats')", c.EventSink)
	}

	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return fmt.Errorf("invalid STREAK_TIMEZONE %q: %w", c.StreakTimezone, err)
	}
	c.location = loc

	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", c.RateLimit, err)
	}

	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", c.MaxRequestBytes)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeout)
	}

	return nil
}

// Location returns the time zone streak calendar days are computed in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// AllowedOrigins returns the comma-separated FRONTEND_URL entries
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Timeout returns the per-request handler timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
