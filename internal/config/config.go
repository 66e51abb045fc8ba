// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory calibration sample queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of calibration scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the sample digest cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxSamples bounds the in-memory calibration dataset.
	MaxSamples int `koanf:"max_samples"`

	// MaxBatchSize caps the number of texts accepted per batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxTextBytes caps the size of a single submitted text.
	MaxTextBytes int `koanf:"max_text_bytes"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":8090",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU() * 2,
		DedupeSize:   50_000,
		MaxSamples:   10_000,
		MaxBatchSize: 32,
		MaxTextBytes: 1 << 20,
	}
}
