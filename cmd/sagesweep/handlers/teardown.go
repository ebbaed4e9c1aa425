package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/s3"
	"github.com/imamik/sagesweep/internal/teardown"
)

// TeardownOptions holds the flags of the root command.
type TeardownOptions struct {
	ProjectID    string
	DomainIDs    string
	DryRun       bool
	Yes          bool
	ConfigPath   string
	Verbose      bool
	NoColor      bool
	MetricsFile  string
	ReportBucket string
	ReportPrefix string
}

func (o TeardownOptions) selector() teardown.Selector {
	return teardown.Selector{
		ProjectID: o.ProjectID,
		DomainIDs: teardown.ParseDomainIDs(o.DomainIDs),
	}
}

// applyFlags lets flags override the config file and environment.
func (o TeardownOptions) applyFlags(cfg *config.Config) {
	if o.MetricsFile != "" {
		cfg.Metrics.TextfilePath = o.MetricsFile
	}
	if o.ReportBucket != "" {
		cfg.Report.Bucket = o.ReportBucket
	}
	if o.ReportPrefix != "" {
		cfg.Report.Prefix = o.ReportPrefix
	}
}

// Teardown handles the root command.
//
// It resolves the selected domains, asks for confirmation on an interactive
// terminal, tears the domains down one at a time and prints a report per
// domain. A partial or failed batch is returned as an *ExitError.
func Teardown(ctx context.Context, opts TeardownOptions) error {
	sel := opts.selector()
	if err := sel.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.applyFlags(cfg)

	observer := teardown.NewConsoleObserver(stdout, !opts.NoColor && colorEnabled())
	if opts.DryRun {
		observer.Printf("Dry run: nothing will be deleted")
	}

	provider, awsCfg, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	account, err := provider.CallerIdentity(ctx)
	if err != nil {
		observer.Warnf("could not determine AWS account: %v", err)
	} else {
		observer.Printf("Using AWS account %s in region %s", account, cfg.Region)
	}

	res, err := teardown.Resolve(ctx, provider, sel)
	if err != nil {
		return err
	}
	if res.Empty() {
		observer.Printf("No domains matched %s, nothing to do", sel)
		return nil
	}

	if !opts.DryRun && !opts.Yes && isInteractive() {
		ok, err := confirmTeardown(ctx, res)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			observer.Printf("Aborted, nothing was deleted")
			return nil
		}
	}

	metrics := teardown.NewMetrics()
	runOpts := teardown.OptionsFromConfig(cfg)
	runOpts.DryRun = opts.DryRun
	runOpts.Observer = observer
	runOpts.Logger = newLogger(opts.Verbose)
	runOpts.Metrics = metrics
	runOpts.Now = now

	report := teardown.New(provider, runOpts).Run(ctx, res)
	report.Region = cfg.Region
	report.Account = account

	fmt.Fprintln(stdout)
	for _, d := range report.Domains {
		d.WriteText(stdout, opts.DryRun)
	}
	fmt.Fprintln(stdout, renderSummary(report, !opts.NoColor && colorEnabled()))

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			observer.Warnf("failed to write metrics file: %v", err)
		} else {
			observer.Printf("Wrote metrics to %s", path)
		}
	}

	if cfg.Report.Bucket != "" {
		key, err := uploadReport(ctx, newReportUploader(awsCfg), cfg.Report, report)
		if err != nil {
			observer.Warnf("failed to upload report: %v", err)
		} else {
			observer.Printf("Uploaded report to s3://%s/%s", cfg.Report.Bucket, key)
		}
	}

	return outcomeError(report.Outcome)
}

// uploadReport stores the report as YAML and returns the object key.
func uploadReport(ctx context.Context, up ReportUploader, rc config.ReportConfig, report *teardown.Report) (string, error) {
	exists, err := up.BucketExists(ctx, rc.Bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("bucket %s does not exist", rc.Bucket)
	}

	data, err := report.YAML()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("sagesweep-%s.yaml", report.StartedAt.UTC().Format("20060102T150405Z"))
	key := s3.ObjectKey(rc.Prefix, name)
	if err := up.PutObject(ctx, rc.Bucket, key, "application/yaml", data); err != nil {
		return "", err
	}
	return key, nil
}
