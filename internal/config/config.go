// Package config defines the service configuration and its defaults.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr is the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory measurement queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the set of remembered measurement ids.
	DedupeSize int `koanf:"dedupe_size"`

	// ResultCapacity bounds the in-memory result store; the oldest records
	// are evicted first.
	ResultCapacity int `koanf:"result_capacity"`

	// CatalogPath points at the YAML catalog of grading keys, tables,
	// shuttle-run configs and standards.
	CatalogPath string `koanf:"catalog_path"`

	// MaxBatchSize caps POST /evaluate/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      100_000,
		ResultCapacity:  100_000,
		CatalogPath:     "catalog.yaml",
		MaxBatchSize:    500,
		ShutdownTimeout: 10 * time.Second,
	}
}
