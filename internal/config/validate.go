package config

import (
	"errors"
	"fmt"
)

var (
	validFields = map[string]bool{MatchFieldName: true, MatchFieldID: true, MatchFieldAny: true}
	validModes  = map[string]bool{MatchModeContains: true, MatchModeSuffix: true, MatchModeExact: true}
)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}

	rules := map[string]MatchRule{
		"lambda_function":   c.Matching.LambdaFunction,
		"network_interface": c.Matching.NetworkInterface,
		"efs_file_system":   c.Matching.EFSFileSystem,
	}
	for name, rule := range rules {
		if !validFields[rule.Field] {
			return fmt.Errorf("matching.%s.field: unknown field %q (want name, id or any)", name, rule.Field)
		}
		if !validModes[rule.Mode] {
			return fmt.Errorf("matching.%s.mode: unknown mode %q (want contains, suffix or exact)", name, rule.Mode)
		}
	}

	if err := c.validateRetry(); err != nil {
		return fmt.Errorf("retry validation failed: %w", err)
	}

	if c.Credentials != nil && (c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "") {
		return fmt.Errorf("credentials require both access_key_id and secret_access_key")
	}
	return nil
}

func (c *Config) validateRetry() error {
	r := c.Retry
	// An unbounded wait is exactly what the poll loop must never do.
	if r.MaxAttempts <= 0 && r.MaxElapsed <= 0 {
		return errors.New("at least one of max_attempts or max_elapsed must be positive")
	}
	if r.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", r.MaxAttempts)
	}
	if r.InitialDelay < 0 || r.MaxDelay < 0 || r.MaxElapsed < 0 {
		return errors.New("durations must not be negative")
	}
	if r.Multiplier < 1 {
		return fmt.Errorf("multiplier must be >= 1, got %v", r.Multiplier)
	}
	if r.EFSInUseAttempts < 1 {
		return fmt.Errorf("efs_in_use_attempts must be >= 1, got %d", r.EFSInUseAttempts)
	}
	return nil
}
