package teardown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/sagesweep/internal/platform/aws"
)

// childState is where a child resource stands in its teardown.
type childState int

const (
	// stateActive children need a delete call.
	stateActive childState = iota
	// stateWaiting children are changing state on their own.
	stateWaiting
	// stateGone children are deleted or absent.
	stateGone
)

// classify maps a SageMaker status to a teardown state. Delete_Failed and
// any unknown status count as active, so a fresh delete call is issued.
func classify(status string) childState {
	switch status {
	case aws.StatusDeleted:
		return stateGone
	case aws.StatusDeleting, aws.StatusPending, aws.StatusUpdating:
		return stateWaiting
	default:
		return stateActive
	}
}

// child is one app, space or user profile.
type child struct {
	id     string
	status string
	delete func(context.Context) error
}

// collection is a kind of child resource scoped to a domain.
type collection struct {
	kind Kind
	list func(ctx context.Context, domainID string) ([]child, error)
}

var (
	// errStillDeleting signals a pass that left children to wait for.
	errStillDeleting = errors.New("children still deleting")
	// errRetryLater marks a delete refused because dependents still exist.
	errRetryLater = errors.New("dependents still deleting")
)

// collections returns the child collections in teardown order.
func (o *Orchestrator) collections() []collection {
	p := o.provider
	return []collection{
		{kind: KindApp, list: func(ctx context.Context, domainID string) ([]child, error) {
			apps, err := p.ListApps(ctx, domainID)
			if err != nil {
				return nil, err
			}
			out := make([]child, 0, len(apps))
			for _, a := range apps {
				out = append(out, child{id: a.Key(), status: a.Status, delete: func(ctx context.Context) error {
					return p.DeleteApp(ctx, a)
				}})
			}
			return out, nil
		}},
		{kind: KindSpace, list: func(ctx context.Context, domainID string) ([]child, error) {
			spaces, err := p.ListSpaces(ctx, domainID)
			if err != nil {
				return nil, err
			}
			out := make([]child, 0, len(spaces))
			for _, s := range spaces {
				out = append(out, child{id: s.Name, status: s.Status, delete: func(ctx context.Context) error {
					return p.DeleteSpace(ctx, s)
				}})
			}
			return out, nil
		}},
		{kind: KindUserProfile, list: func(ctx context.Context, domainID string) ([]child, error) {
			profiles, err := p.ListUserProfiles(ctx, domainID)
			if err != nil {
				return nil, err
			}
			out := make([]child, 0, len(profiles))
			for _, u := range profiles {
				out = append(out, child{id: u.Name, status: u.Status, delete: func(ctx context.Context) error {
					return p.DeleteUserProfile(ctx, u)
				}})
			}
			return out, nil
		}},
	}
}

// drain brings a child collection of the domain to Gone.
//
// Each pass lists the collection, issues a delete for every active child
// and counts the ones still on their way out. A pass with nothing left to
// wait for ends the loop; otherwise the poll policy decides whether and
// when to look again. A dry run makes a single pass without deleting.
//
// A child whose delete call fails with anything but "in use" or "not found"
// is reported and left alone for the rest of the drain.
func (o *Orchestrator) drain(ctx context.Context, d aws.Domain, c collection, rep *DomainReport) error {
	phase := string(c.kind) + "s"
	start := time.Now()
	logPhaseStart(o.observer, d.ID, phase)

	failed := make(map[string]bool)
	failures := &CleanupError{}

	pass := func(attempt int) error {
		o.metrics.recordPollPass(c.kind)
		items, err := c.list(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("failed to list %ss: %w", c.kind, err)
		}

		waiting := 0
		for _, item := range items {
			if failed[item.id] {
				continue
			}
			switch classify(item.status) {
			case stateGone:
				continue
			case stateWaiting:
				waiting++
				o.log.V(1).Info("waiting", "domain", d.ID, "kind", string(c.kind), "id", item.id, "status", item.status, "pass", attempt)
				continue
			}

			if o.opts.DryRun {
				_ = o.deleteResource(ctx, d, rep, c.kind, item.id, nil)
				continue
			}

			err := o.deleteResource(ctx, d, rep, c.kind, item.id, func(ctx context.Context) error {
				err := item.delete(ctx)
				if aws.IsInUse(err) {
					return errRetryLater
				}
				return err
			})
			if err != nil {
				failed[item.id] = true
				failures.Add(err)
				continue
			}
			waiting++
		}

		if o.opts.DryRun || waiting == 0 {
			return nil
		}
		return fmt.Errorf("%w: %d %s(s) in domain %s", errStillDeleting, waiting, c.kind, d.ID)
	}

	err := o.opts.PollPolicy.Do(ctx, pass, func(attempt int, err error, wait time.Duration) {
		o.observer.Printf("[%s] %v, checking again in %v (pass %d)", d.ID, err, wait, attempt)
	})
	if err == nil {
		err = failures.ErrOrNil()
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", phase, err)
		logPhaseFailed(o.observer, d.ID, phase, err)
		return err
	}

	logPhaseComplete(o.observer, d.ID, phase, time.Since(start))
	return nil
}
