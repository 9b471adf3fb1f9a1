// Package config loads memkv's configuration from process-environment
// variables, following the Viper + godotenv pattern in
// smcdaniel54-LlamaGate/internal/config/config.go.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "MEMCACHED"

// Config holds every recognized option from spec §6.
type Config struct {
	// MemoryLimit is the engine's byte capacity budget.
	MemoryLimit uint64
	// GCInterval is the sweeper period.
	GCInterval time.Duration
	// Addr is the HTTP bind address.
	Addr string
	// Workers is the optional HTTP worker count; nil means "let the
	// transport choose a default".
	Workers *int

	// Debug enables verbose (debug-level) logging.
	Debug bool
	// LogFile optionally tees logs to a file in addition to stdout.
	LogFile string
	// MetricsDisabled turns off the /metrics endpoint.
	MetricsDisabled bool
}

// Load reads an optional .env file and then the environment (environment
// variables always take precedence over .env), applying the defaults from
// spec §6: 1 MiB memory_limit, 100ms gc_interval, 0.0.0.0:8080 addr, no
// fixed worker count.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("MEMORY_LIMIT", 1<<20)
	viper.SetDefault("GC_INTERVAL", "100ms")
	viper.SetDefault("ADDR", "0.0.0.0:8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("METRICS_DISABLED", false)

	gcInterval, err := durationWithDefault("GC_INTERVAL", "100ms")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MemoryLimit:     viper.GetUint64("MEMORY_LIMIT"),
		GCInterval:      gcInterval,
		Addr:            viper.GetString("ADDR"),
		Debug:           viper.GetBool("DEBUG"),
		LogFile:         viper.GetString("LOG_FILE"),
		MetricsDisabled: viper.GetBool("METRICS_DISABLED"),
	}

	if viper.IsSet("WORKERS") {
		w := viper.GetInt("WORKERS")
		if w <= 0 {
			return nil, fmt.Errorf("%s_WORKERS must be a positive integer, got %d", envPrefix, w)
		}
		cfg.Workers = &w
	}

	return cfg, nil
}
