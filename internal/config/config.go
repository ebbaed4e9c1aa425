package config

import (
	"time"

	"github.com/imamik/sagesweep/internal/util/retry"
)

// DefaultRegion is used when neither the config file nor AWS_REGION set one.
const DefaultRegion = "us-east-1"

// Match fields select which domain attribute a resource is compared against.
const (
	MatchFieldName = "name"
	MatchFieldID   = "id"
	MatchFieldAny  = "any"
)

// Match modes select how the comparison is done. All modes are case-sensitive.
const (
	MatchModeContains = "contains"
	MatchModeSuffix   = "suffix"
	MatchModeExact    = "exact"
)

// Config is the complete runtime configuration of a teardown run.
type Config struct {
	Region      string             `yaml:"region"`
	EndpointURL string             `yaml:"endpoint_url,omitempty"`
	Credentials *StaticCredentials `yaml:"credentials,omitempty"`
	Matching    MatchingConfig     `yaml:"matching"`
	Retry       RetryConfig        `yaml:"retry"`
	Report      ReportConfig       `yaml:"report,omitempty"`
	Metrics     MetricsConfig      `yaml:"metrics,omitempty"`
}

// StaticCredentials override the default AWS credential chain. They exist
// for local emulators; real accounts should use the ambient chain.
type StaticCredentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token,omitempty"`
}

// MatchRule correlates an auxiliary resource with a domain.
type MatchRule struct {
	Field string `yaml:"field"`
	Mode  string `yaml:"mode"`
}

// MatchingConfig holds one rule per auxiliary resource kind.
type MatchingConfig struct {
	LambdaFunction   MatchRule `yaml:"lambda_function"`
	NetworkInterface MatchRule `yaml:"network_interface"`
	EFSFileSystem    MatchRule `yaml:"efs_file_system"`
}

// RetryConfig bounds the wait for asynchronous child deletions.
type RetryConfig struct {
	InitialDelay     time.Duration `yaml:"initial_delay"`
	Multiplier       float64       `yaml:"multiplier"`
	MaxDelay         time.Duration `yaml:"max_delay"`
	MaxAttempts      int           `yaml:"max_attempts"`
	MaxElapsed       time.Duration `yaml:"max_elapsed"`
	EFSInUseAttempts int           `yaml:"efs_in_use_attempts"`
}

// ReportConfig enables uploading the batch report to S3.
type ReportConfig struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// MetricsConfig enables writing a Prometheus textfile after the run.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Region: DefaultRegion,
		Matching: MatchingConfig{
			LambdaFunction:   MatchRule{Field: MatchFieldName, Mode: MatchModeContains},
			NetworkInterface: MatchRule{Field: MatchFieldAny, Mode: MatchModeContains},
			EFSFileSystem:    MatchRule{Field: MatchFieldID, Mode: MatchModeContains},
		},
		Retry: RetryConfig{
			InitialDelay:     5 * time.Second,
			Multiplier:       3,
			MaxDelay:         5 * time.Minute,
			MaxAttempts:      8,
			MaxElapsed:       45 * time.Minute,
			EFSInUseAttempts: 10,
		},
	}
}

// PollPolicy converts the retry section into the policy used while waiting
// for apps, spaces and user profiles to disappear.
func (c *Config) PollPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:  c.Retry.MaxAttempts,
		InitialDelay: c.Retry.InitialDelay,
		MaxDelay:     c.Retry.MaxDelay,
		MaxElapsed:   c.Retry.MaxElapsed,
		Multiplier:   c.Retry.Multiplier,
	}
}

// InUsePolicy is the policy for retrying deletes the provider rejects
// because a dependent object is still attached.
func (c *Config) InUsePolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:  c.Retry.EFSInUseAttempts,
		InitialDelay: c.Retry.InitialDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   1.5,
	}
}
