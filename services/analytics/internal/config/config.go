package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the analytics consumer service.
type Config struct {
	LogLevel        string
	NATSURL         string
	DatabaseURL     string
	NATSBatchSize   int // NATS fetch batch size
	BatchIntervalMs int // NATS fetch wait (ms)
}

// Load reads Config from environment variables.
func Load() (Config, error) {
	natsURL := strings.TrimSpace(os.Getenv("NATS_URL"))
	if natsURL == "" {
		natsURL = "nats://nats:4222"
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	batchSize := 200
	if v := strings.TrimSpace(os.Getenv("WORKER_BATCH_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			batchSize = n
		}
	}

	batchIntervalMs := 2000
	if v := strings.TrimSpace(os.Getenv("WORKER_BATCH_INTERVAL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			batchIntervalMs = n
		}
	}

	return Config{
		LogLevel:        logLevel,
		NATSURL:         natsURL,
		DatabaseURL:     dsn,
		NATSBatchSize:   batchSize,
		BatchIntervalMs: batchIntervalMs,
	}, nil
}
