// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Default values.
const (
	defaultAddr            = ":9080"
	defaultTransformerPath = "models/transformer.json"
	defaultClassifierPath  = "models/classifier.json"
	defaultMaxRequestBytes = 64 << 10
	defaultMetricsNS       = "diabcheck"
	defaultMetricsSub      = "survey"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TransformerPath and ClassifierPath locate the trained artifacts.
	TransformerPath string `koanf:"transformer_path"`
	ClassifierPath  string `koanf:"classifier_path"`

	// CORSAllowedOrigins enables cross-origin access to the API when non-empty.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MaxRequestBytes caps the body size of POST /predict.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`

	// ModelVersion, when set, is attached to every metric as model_version.
	ModelVersion string `koanf:"model_version"`

	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the millisecond buckets of the latency
	// histograms. Values must be strictly increasing.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            defaultAddr,
		TransformerPath: defaultTransformerPath,
		ClassifierPath:  defaultClassifierPath,
		MaxRequestBytes: defaultMaxRequestBytes,

		MetricsNamespace: defaultMetricsNS,
		MetricsSubsystem: defaultMetricsSub,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.TransformerPath == "":
		return fmt.Errorf("transformer_path must not be empty: %w", ErrInvalidConfig)
	case c.ClassifierPath == "":
		return fmt.Errorf("classifier_path must not be empty: %w", ErrInvalidConfig)
	case c.MaxRequestBytes <= 0:
		return fmt.Errorf("max_request_bytes must be positive: %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q must be text or json: %w", c.LogFormat, ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("metrics_latency_buckets must be strictly increasing: %w", ErrInvalidConfig)
		}
	}
	return nil
}
