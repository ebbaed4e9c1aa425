// Package config defines the runtime configuration of a teardown run.
//
// A [Config] starts from [Default], is overlaid with an optional YAML file
// and then with environment variables (see [ApplyEnv]). It carries the AWS
// region, the matching rule for each auxiliary resource kind, and the retry
// budget that bounds every wait on asynchronous deletions.
package config
