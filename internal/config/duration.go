package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// durationWithDefault parses a duration-string config key (e.g. "100ms",
// "5s", "2m") with a fallback default, following the same pattern as
// LlamaGate's internal/config/duration.go.
func durationWithDefault(key, defaultValue string) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		raw = defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w (expected a duration like \"100ms\", \"5s\", \"2m\")", key, err)
	}
	return d, nil
}
