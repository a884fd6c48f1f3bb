package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
// Provider credentials are optional: a missing credential disables that
// adapter (it logs a warning and contributes zero records).
type Config struct {
	EventsPath string
	VenuesPath string

	LogLevel  string
	LogFormat string
	HTTPAddr  string // empty disables the health/metrics endpoint

	RequestTimeout time.Duration

	// Provider credentials.
	TicketmasterKey string
	EventbriteToken string
	SerpAPIKey      string
	MapTilerKey     string

	// Optional Kafka publisher for accepted events. Disabled when no
	// brokers are configured.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	requestTimeoutStr := envOrDefault("REQUEST_TIMEOUT", "15s")
	requestTimeout, err := time.ParseDuration(requestTimeoutStr)
	if err != nil || requestTimeout <= 0 {
		return nil, errors.New("invalid REQUEST_TIMEOUT")
	}

	// Ticketmaster accepts either env name; the consumer key is the
	// newer portal's terminology.
	tmKey := os.Getenv("TICKETMASTER_CONSUMER_KEY")
	if tmKey == "" {
		tmKey = os.Getenv("TICKETMASTER_API_KEY")
	}

	cfg := &Config{
		EventsPath: envOrDefault("EVENTS_PATH", "data/events.json"),
		VenuesPath: envOrDefault("VENUES_PATH", "data/canonical-venues.yaml"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:  os.Getenv("HTTP_ADDR"),

		RequestTimeout: requestTimeout,

		TicketmasterKey: tmKey,
		EventbriteToken: os.Getenv("EVENTBRITE_PRIVATE_TOKEN"),
		SerpAPIKey:      os.Getenv("SERPAPI_KEY"),
		MapTilerKey:     os.Getenv("MAPTILER_API_KEY"),

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "synced-events"),
	}

	if cfg.EventsPath == "" {
		return nil, errors.New("EVENTS_PATH is required")
	}
	if cfg.VenuesPath == "" {
		return nil, errors.New("VENUES_PATH is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the accepted-events publisher is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
