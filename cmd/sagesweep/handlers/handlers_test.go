package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
	"github.com/imamik/sagesweep/internal/platform/aws/fakes"
	"github.com/imamik/sagesweep/internal/teardown"
)

type fakeUploader struct {
	exists    bool
	existsErr error
	putErr    error

	bucket, key, contentType string
	data                     []byte
}

func (u *fakeUploader) BucketExists(_ context.Context, _ string) (bool, error) {
	return u.exists, u.existsErr
}

func (u *fakeUploader) PutObject(_ context.Context, bucket, key, contentType string, data []byte) error {
	u.bucket, u.key, u.contentType, u.data = bucket, key, contentType, data
	return u.putErr
}

type stubs struct {
	provider  *fakes.Provider
	cfg       *config.Config
	out       *bytes.Buffer
	errOut    *bytes.Buffer
	uploader  *fakeUploader
	confirmed int
}

// withStubs replaces every factory variable for the duration of the test.
// Tests using it must not run in parallel.
func withStubs(t *testing.T) *stubs {
	t.Helper()
	origLoad, origProvider, origUploader := loadConfigFile, newProvider, newReportUploader
	origOut, origErr, origInteractive, origColor := stdout, stderr, isInteractive, colorEnabled
	origConfirm, origNow := confirmTeardown, now
	t.Cleanup(func() {
		loadConfigFile, newProvider, newReportUploader = origLoad, origProvider, origUploader
		stdout, stderr, isInteractive, colorEnabled = origOut, origErr, origInteractive, origColor
		confirmTeardown, now = origConfirm, origNow
	})

	cfg := config.Default()
	cfg.Retry.InitialDelay = time.Millisecond
	cfg.Retry.MaxDelay = time.Millisecond
	cfg.Retry.MaxAttempts = 4
	cfg.Retry.EFSInUseAttempts = 2

	s := &stubs{
		provider: fakes.New(fakes.WithAccount("111122223333")),
		cfg:      cfg,
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		uploader: &fakeUploader{exists: true},
	}
	loadConfigFile = func(_ string) (*config.Config, error) { return s.cfg, nil }
	newProvider = func(_ context.Context, _ *config.Config) (aws.Provider, awssdk.Config, error) {
		return s.provider, awssdk.Config{}, nil
	}
	newReportUploader = func(awssdk.Config) ReportUploader { return s.uploader }
	stdout, stderr = s.out, s.errOut
	isInteractive = func() bool { return false }
	colorEnabled = func() bool { return false }
	confirmTeardown = func(context.Context, *teardown.Resolution) (bool, error) {
		s.confirmed++
		return true, nil
	}
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestTeardown_UsageErrors(t *testing.T) {
	withStubs(t)

	err := Teardown(context.Background(), TeardownOptions{})

	var usage *teardown.UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestTeardown_ConfigError(t *testing.T) {
	withStubs(t)
	loadConfigFile = func(string) (*config.Config, error) {
		return nil, errors.New("failed to read config file: missing")
	}

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7"})

	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestTeardown_ProviderError(t *testing.T) {
	withStubs(t)
	newProvider = func(context.Context, *config.Config) (aws.Provider, awssdk.Config, error) {
		return nil, awssdk.Config{}, errors.New("failed to load AWS config")
	}

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7"})

	require.EqualError(t, err, "failed to load AWS config")
}

func TestTeardown_NothingToDo(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-9", Name: "ds-team9"})

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7"})

	require.NoError(t, err)
	assert.Contains(t, s.out.String(), "nothing to do")
	assert.Contains(t, s.out.String(), "Using AWS account 111122223333 in region us-east-1")
	assert.Zero(t, s.provider.MutationCount())
}

func TestTeardown_DryRun(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
	s.provider.AddFunction(aws.Function{Name: "ds-team7-hook"})
	isInteractive = func() bool { return true }

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7", DryRun: true})

	require.NoError(t, err)
	out := s.out.String()
	assert.Contains(t, out, "[DRY RUN]")
	assert.Contains(t, out, "Would delete 1 lambda-function: ds-team7-hook")
	assert.Contains(t, out, "Teardown summary (dry run)")
	assert.Zero(t, s.provider.MutationCount())
	assert.Zero(t, s.confirmed, "dry runs never prompt")
}

func TestTeardown_LiveSucceeded(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
	s.provider.AddUserProfile(aws.UserProfile{DomainID: "d-001", Name: "alice"})

	err := Teardown(context.Background(), TeardownOptions{DomainIDs: "d-001"})

	require.NoError(t, err)
	assert.Contains(t, s.out.String(), "Outcome: succeeded")
	assert.Contains(t, s.provider.Mutations(), "delete domain d-001")
	assert.Empty(t, s.provider.Remaining(fakes.KindUserProfile))
}

func TestTeardown_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fakes.Provider)
		opts  TeardownOptions
		want  int
	}{
		{
			name: "unresolved domain is partial",
			setup: func(p *fakes.Provider) {
				p.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			},
			opts: TeardownOptions{DomainIDs: "d-001,d-002"},
			want: ExitPartial,
		},
		{
			name: "failed auxiliary delete is partial",
			setup: func(p *fakes.Provider) {
				p.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
				p.AddFunction(aws.Function{Name: "ds-team7-hook"})
				p.FailDelete(fakes.KindFunction, "ds-team7-hook", errors.New("access denied"))
			},
			opts: TeardownOptions{ProjectID: "team7"},
			want: ExitPartial,
		},
		{
			name: "failed domain delete is a failure",
			setup: func(p *fakes.Provider) {
				p.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
				p.FailDelete(fakes.KindDomain, "d-001", errors.New("access denied"))
			},
			opts: TeardownOptions{ProjectID: "team7"},
			want: ExitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withStubs(t)
			tt.setup(s.provider)

			err := Teardown(context.Background(), tt.opts)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.want, ExitCode(err))
		})
	}
}

func TestTeardown_Confirmation(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		yes         bool
		answer      bool
		answerErr   error
		wantPrompt  bool
		wantDeleted bool
		wantErr     bool
	}{
		{name: "confirmed", interactive: true, answer: true, wantPrompt: true, wantDeleted: true},
		{name: "declined", interactive: true, answer: false, wantPrompt: true},
		{name: "prompt error", interactive: true, answerErr: errors.New("tty closed"), wantPrompt: true, wantErr: true},
		{name: "yes skips prompt", interactive: true, yes: true, wantDeleted: true},
		{name: "non-interactive never prompts", wantDeleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withStubs(t)
			s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			isInteractive = func() bool { return tt.interactive }
			prompted := false
			confirmTeardown = func(_ context.Context, res *teardown.Resolution) (bool, error) {
				prompted = true
				assert.Len(t, res.Targets, 1)
				return tt.answer, tt.answerErr
			}

			err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7", Yes: tt.yes})

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantPrompt, prompted)
			assert.Equal(t, tt.wantDeleted, s.provider.MutationCount() > 0)
		})
	}
}

func TestTeardown_MetricsFile(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
	path := filepath.Join(t.TempDir(), "sagesweep.prom")

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7", MetricsFile: path})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sagesweep_teardown_domains_total{outcome="succeeded"} 1`)
	assert.Contains(t, s.out.String(), "Wrote metrics to "+path)
}

func TestTeardown_ReportUpload(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})

	err := Teardown(context.Background(), TeardownOptions{
		ProjectID:    "team7",
		ReportBucket: "audit",
		ReportPrefix: "sagesweep/runs",
	})

	require.NoError(t, err)
	assert.Equal(t, "audit", s.uploader.bucket)
	assert.Equal(t, "sagesweep/runs/sagesweep-20260301T120000Z.yaml", s.uploader.key)
	assert.Equal(t, "application/yaml", s.uploader.contentType)
	assert.Contains(t, string(s.uploader.data), "domain_id: d-001")
	assert.Contains(t, string(s.uploader.data), "account: \"111122223333\"")
}

func TestTeardown_ReportUploadFailureOnlyWarns(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
	s.uploader.exists = false

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7", ReportBucket: "missing"})

	require.NoError(t, err)
	assert.Contains(t, s.out.String(), "WARNING: failed to upload report: bucket missing does not exist")
	assert.Nil(t, s.uploader.data)
}

func TestTeardown_VerboseLogsToStderr(t *testing.T) {
	s := withStubs(t)
	s.provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
	s.provider.AddFunction(aws.Function{Name: "ds-team7-hook"})

	err := Teardown(context.Background(), TeardownOptions{ProjectID: "team7", DryRun: true, Verbose: true})

	require.NoError(t, err)
	assert.NotEmpty(t, s.errOut.String())
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Report.Bucket = "from-file"
	cfg.Report.Prefix = "file-prefix"

	TeardownOptions{ReportBucket: "from-flag", MetricsFile: "/tmp/m.prom"}.applyFlags(cfg)

	assert.Equal(t, "from-flag", cfg.Report.Bucket)
	assert.Equal(t, "file-prefix", cfg.Report.Prefix)
	assert.Equal(t, "/tmp/m.prom", cfg.Metrics.TextfilePath)
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitUsage},
		{"partial", outcomeError(teardown.OutcomePartial), ExitPartial},
		{"failed", outcomeError(teardown.OutcomeFailed), ExitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}

	assert.NoError(t, outcomeError(teardown.OutcomeSucceeded))
	assert.NoError(t, outcomeError(teardown.OutcomeNothingToDo))
	assert.EqualError(t, outcomeError(teardown.OutcomeFailed), "teardown finished with outcome failed")
}
