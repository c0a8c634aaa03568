package retry

import "time"

// Config holds the bounded exponential backoff policy applied to external calls.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
	// InitialInterval is the wait before the first retry.
	InitialInterval time.Duration `mapstructure:"initial_interval" default:"1s"`
	// MaxInterval caps a single wait, including server-provided rate-limit hints.
	MaxInterval time.Duration `mapstructure:"max_interval" default:"15m"`
	// Multiplier grows the wait after each retry.
	Multiplier float64 `mapstructure:"multiplier" default:"2"`
	// RandomizationFactor jitters each wait by +/- this fraction.
	RandomizationFactor float64 `mapstructure:"randomization_factor" default:"0.5"`
	// MaxElapsedTime bounds the total time spent retrying one call. Zero means no bound.
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time" default:"30m"`
}

// DefaultConfig returns the policy used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		MaxRetries:          5,
		InitialInterval:     time.Second,
		MaxInterval:         15 * time.Minute,
		Multiplier:          2,
		RandomizationFactor: 0.5,
		MaxElapsedTime:      30 * time.Minute,
	}
}
