package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	ServicePort int
	Database    DatabaseConfig
	RabbitMQ    RabbitMQConfig
	Import      ImportConfig
	Quality     QualityConfig
}

// DatabaseConfig holds canonical store connection settings
type DatabaseConfig struct {
	URL string
}

// RabbitMQConfig holds RabbitMQ connection and queue settings
type RabbitMQConfig struct {
	URL              string
	ImportExchange   string
	ImportQueue      string
	ImportRoutingKey string
	EventsExchange   string
	EventsRoutingKey string
	DLQQueue         string
	PrefetchCount    int
}

// ImportConfig holds pipeline behavior toggles
type ImportConfig struct {
	// StrictNumbers rejects spot rows whose numeric fields zeroed out
	// instead of silently accepting them.
	StrictNumbers bool
}

// QualityConfig holds advisory price quality check settings
type QualityConfig struct {
	SpikeThreshold float64
	MinDataPoints  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "market-import-worker"),
		ServicePort: getEnvAsInt("SERVICE_PORT", 8082),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:              getEnv("RABBITMQ_URL", ""),
			ImportExchange:   getEnv("RABBITMQ_IMPORT_EXCHANGE", "market-data.import.exchange"),
			ImportQueue:      getEnv("RABBITMQ_IMPORT_QUEUE", "market-data.import.queue"),
			ImportRoutingKey: getEnv("RABBITMQ_IMPORT_ROUTING_KEY", "market.export.received"),
			EventsExchange:   getEnv("RABBITMQ_EVENTS_EXCHANGE", "market-data.importer.events.exchange"),
			EventsRoutingKey: getEnv("RABBITMQ_EVENTS_ROUTING_KEY", "market.import.completed"),
			DLQQueue:         getEnv("RABBITMQ_DLQ_QUEUE", "market-data.import.dlq"),
			PrefetchCount:    getEnvAsInt("RABBITMQ_PREFETCH", 10),
		},
		Import: ImportConfig{
			StrictNumbers: getEnvAsBool("IMPORT_STRICT_NUMBERS", false),
		},
		Quality: QualityConfig{
			SpikeThreshold: getEnvAsFloat("QUALITY_SPIKE_THRESHOLD", 3.0),
			MinDataPoints:  getEnvAsInt("QUALITY_MIN_DATA_POINTS", 3),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set in environment variables")
	}
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required but not set in environment variables")
	}

	return cfg, nil
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
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
