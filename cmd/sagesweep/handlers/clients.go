package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
	"github.com/imamik/sagesweep/internal/platform/s3"
)

// ReportUploader stores the archived run report.
type ReportUploader interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, key, contentType string, data []byte) error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfigFile = config.LoadFile

	// newProvider builds the AWS provider and returns the SDK config it was
	// built from, so the report uploader can share credentials.
	newProvider = func(ctx context.Context, cfg *config.Config) (aws.Provider, awssdk.Config, error) {
		opts := aws.Options{Region: cfg.Region, EndpointURL: cfg.EndpointURL}
		if cfg.Credentials != nil {
			opts.AccessKeyID = cfg.Credentials.AccessKeyID
			opts.SecretAccessKey = cfg.Credentials.SecretAccessKey
			opts.SessionToken = cfg.Credentials.SessionToken
		}
		awsCfg, err := aws.LoadConfig(ctx, opts)
		if err != nil {
			return nil, awssdk.Config{}, err
		}
		return aws.NewRealClient(awsCfg), awsCfg, nil
	}

	newReportUploader = func(awsCfg awssdk.Config) ReportUploader {
		return s3.NewClient(awsCfg)
	}

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// isInteractive reports whether both stdin and stdout are terminals.
	isInteractive = func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}

	// colorEnabled reports whether stdout supports colored output.
	colorEnabled = func() bool {
		return isTerminal(os.Stdout)
	}

	now = time.Now
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger returns a stderr logger for --verbose, or a discarding one.
func newLogger(verbose bool) logr.Logger {
	if !verbose {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(stderr, args)
	}, funcr.Options{Verbosity: 2})
}
