package config

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnv overrides cfg with values from the environment.
// Unset or unparsable variables leave the current value in place.
//
// Environment Variables:
//   - AWS_REGION (default: us-east-1)
//   - SAGESWEEP_POLL_INITIAL_DELAY (default: 5s)
//   - SAGESWEEP_POLL_MULTIPLIER (default: 3)
//   - SAGESWEEP_POLL_MAX_DELAY (default: 5m)
//   - SAGESWEEP_POLL_MAX_ATTEMPTS (default: 8)
//   - SAGESWEEP_POLL_MAX_ELAPSED (default: 45m)
//   - SAGESWEEP_EFS_IN_USE_ATTEMPTS (default: 10)
func ApplyEnv(cfg *Config) {
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Region = region
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	r := &cfg.Retry
	r.InitialDelay = parseDuration("SAGESWEEP_POLL_INITIAL_DELAY", r.InitialDelay)
	r.Multiplier = parseFloat("SAGESWEEP_POLL_MULTIPLIER", r.Multiplier)
	r.MaxDelay = parseDuration("SAGESWEEP_POLL_MAX_DELAY", r.MaxDelay)
	r.MaxAttempts = parseInt("SAGESWEEP_POLL_MAX_ATTEMPTS", r.MaxAttempts)
	r.MaxElapsed = parseDuration("SAGESWEEP_POLL_MAX_ELAPSED", r.MaxElapsed)
	r.EFSInUseAttempts = parseInt("SAGESWEEP_EFS_IN_USE_ATTEMPTS", r.EFSInUseAttempts)
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

func parseFloat(envVar string, defaultVal float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}

	return f
}
