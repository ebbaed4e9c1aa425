package teardown

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
	"github.com/imamik/sagesweep/internal/util/retry"
)

// Options configures an Orchestrator.
type Options struct {
	DryRun   bool
	Matching config.MatchingConfig
	// PollPolicy bounds the wait for apps, spaces and user profiles.
	PollPolicy retry.Policy
	// InUsePolicy bounds retries of EFS deletes refused while in use.
	InUsePolicy retry.Policy

	Observer Observer
	Logger   logr.Logger
	Metrics  *Metrics
	// Now is used for report timestamps. Defaults to time.Now.
	Now func() time.Time
}

// OptionsFromConfig fills the matching and retry options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Matching:    cfg.Matching,
		PollPolicy:  cfg.PollPolicy(),
		InUsePolicy: cfg.InUsePolicy(),
	}
}

// Orchestrator tears down SageMaker domains one at a time.
type Orchestrator struct {
	provider aws.Provider
	opts     Options
	handlers []Handler

	observer Observer
	log      logr.Logger
	metrics  *Metrics
}

// New creates an orchestrator over provider.
func New(provider aws.Provider, opts Options) *Orchestrator {
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		provider: provider,
		opts:     opts,
		handlers: NewHandlers(provider, opts.Matching, opts.InUsePolicy),
		observer: opts.Observer,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
}

// WithHandlers replaces the auxiliary handlers.
func (o *Orchestrator) WithHandlers(handlers ...Handler) *Orchestrator {
	o.handlers = handlers
	return o
}

func (o *Orchestrator) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = o.opts.Now()
	}
	o.observer.Event(e)
}

// Run tears down every resolved target in order and returns the report.
// Unresolved domains are reported as skipped. Failures of one domain never
// stop the next; a cancelled context skips the domains not yet started.
func (o *Orchestrator) Run(ctx context.Context, res *Resolution) *Report {
	report := &Report{
		DryRun:    o.opts.DryRun,
		Selector:  res.Selector.String(),
		StartedAt: o.opts.Now(),
	}

	for _, miss := range res.Misses {
		rep := newDomainReport(miss.DomainID, "")
		rep.Outcome = OutcomeSkipped
		rep.Unresolved = true
		rep.Reason = miss.Err.Error()
		o.emit(Event{Type: EventDomainSkipped, Domain: miss.DomainID, Message: "skipping: " + miss.Error()})
		o.metrics.recordDomain(OutcomeSkipped, 0)
		report.Domains = append(report.Domains, rep)
	}

	for _, d := range res.Targets {
		if err := ctx.Err(); err != nil {
			rep := newDomainReport(d.ID, d.Name)
			rep.Outcome = OutcomeSkipped
			rep.Reason = fmt.Sprintf("not started: %v", err)
			o.emit(Event{Type: EventDomainSkipped, Domain: d.ID, Message: rep.Reason})
			report.Domains = append(report.Domains, rep)
			continue
		}
		report.Domains = append(report.Domains, o.TeardownDomain(ctx, d))
	}

	report.Finish(o.opts.Now())
	return report
}

// TeardownDomain drains the domain's children, sweeps its auxiliary
// resources and deletes it. The domain delete is issued once, only after
// every child is gone.
func (o *Orchestrator) TeardownDomain(ctx context.Context, d aws.Domain) *DomainReport {
	start := time.Now()
	rep := newDomainReport(d.ID, d.Name)
	defer func() {
		o.metrics.recordDomain(rep.Outcome, time.Since(start).Seconds())
	}()

	if d.Status == aws.StatusDeleting {
		rep.Outcome = OutcomeSkipped
		rep.Reason = "domain is already deleting"
		o.emit(Event{Type: EventDomainSkipped, Domain: d.ID, Message: rep.Reason})
		return rep
	}

	o.observer.Printf("Tearing down domain %s (%s)", d.ID, d.Name)

	for _, c := range o.collections() {
		if err := o.drain(ctx, d, c, rep); err != nil {
			rep.Outcome = OutcomeFailed
			rep.Reason = err.Error()
			return rep
		}
	}

	logPhaseStart(o.observer, d.ID, "sweep")
	sweepStart := time.Now()
	sweepErr := o.sweep(ctx, d, rep)
	if sweepErr != nil {
		logPhaseFailed(o.observer, d.ID, "sweep", sweepErr)
	} else {
		logPhaseComplete(o.observer, d.ID, "sweep", time.Since(sweepStart))
	}

	if err := o.deleteDomain(ctx, d, rep); err != nil {
		rep.Outcome = OutcomeFailed
		rep.Reason = err.Error()
		return rep
	}

	rep.Outcome = OutcomeSucceeded
	if sweepErr != nil {
		rep.Outcome = OutcomePartial
		rep.Reason = sweepErr.Error()
	}
	return rep
}

// deleteDomain issues the single domain delete call, dropping the home
// EFS volume with it.
func (o *Orchestrator) deleteDomain(ctx context.Context, d aws.Domain, rep *DomainReport) error {
	rep.record(KindDomain, d.ID)

	if o.opts.DryRun {
		o.emit(Event{Type: EventResourceWouldDelete, Domain: d.ID, Kind: KindDomain, Resource: d.ID,
			Message: "would delete domain and its home EFS volume"})
		o.metrics.recordDeletion(KindDomain, "would_delete")
		rep.DomainDeleted = true
		return nil
	}

	o.emit(Event{Type: EventResourceDeleting, Domain: d.ID, Kind: KindDomain, Resource: d.ID,
		Message: "deleting domain and its home EFS volume"})
	if err := o.provider.DeleteDomain(ctx, d.ID); err != nil && !aws.IsNotFound(err) {
		domainErr := &DomainDeleteError{DomainID: d.ID, Err: err}
		rep.fail(KindDomain, d.ID, err)
		o.emit(Event{Type: EventResourceFailed, Domain: d.ID, Kind: KindDomain, Resource: d.ID,
			Message: domainErr.Error()})
		o.metrics.recordDeletion(KindDomain, "failed")
		return domainErr
	}

	o.emit(Event{Type: EventResourceDeleted, Domain: d.ID, Kind: KindDomain, Resource: d.ID,
		Message: "domain delete requested"})
	o.metrics.recordDeletion(KindDomain, "deleted")
	rep.DomainDeleted = true
	return nil
}
