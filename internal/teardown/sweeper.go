package teardown

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
	"github.com/imamik/sagesweep/internal/util/retry"
)

// Resource is an auxiliary resource as seen by a Handler.
type Resource struct {
	ID string
	// Values are the attributes a Rule compares against the domain.
	Values []string
}

// Handler sweeps one kind of auxiliary resource. Adding a kind to the
// sweep means adding a Handler.
type Handler interface {
	Kind() Kind
	// List returns every resource of the kind in the region.
	List(ctx context.Context) ([]Resource, error)
	// Matches reports whether r belongs to the domain.
	Matches(r Resource, d aws.Domain) bool
	// Delete removes r. Not-found errors are returned unchanged.
	Delete(ctx context.Context, r Resource) error
}

// ruleHandler supplies Matches for handlers driven by a Rule.
type ruleHandler struct {
	rule Rule
}

func (h ruleHandler) Matches(r Resource, d aws.Domain) bool {
	return h.rule.Matches(r.Values, d)
}

// NewHandlers returns the auxiliary handlers in sweep order: Lambda
// functions, network interfaces, EFS file systems.
func NewHandlers(api aws.AuxiliaryAPI, matching config.MatchingConfig, inUse retry.Policy) []Handler {
	return []Handler{
		&functionHandler{ruleHandler: ruleHandler{Rule(matching.LambdaFunction)}, api: api},
		&networkInterfaceHandler{ruleHandler: ruleHandler{Rule(matching.NetworkInterface)}, api: api},
		&fileSystemHandler{ruleHandler: ruleHandler{Rule(matching.EFSFileSystem)}, api: api, inUse: inUse},
	}
}

type functionHandler struct {
	ruleHandler
	api aws.AuxiliaryAPI
}

func (h *functionHandler) Kind() Kind { return KindFunction }

func (h *functionHandler) List(ctx context.Context) ([]Resource, error) {
	fns, err := h.api.ListFunctions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Resource, 0, len(fns))
	for _, f := range fns {
		out = append(out, Resource{ID: f.Name, Values: functionValues(f)})
	}
	return out, nil
}

func (h *functionHandler) Delete(ctx context.Context, r Resource) error {
	return h.api.DeleteFunction(ctx, r.ID)
}

type networkInterfaceHandler struct {
	ruleHandler
	api aws.AuxiliaryAPI
}

func (h *networkInterfaceHandler) Kind() Kind { return KindNetworkInterface }

func (h *networkInterfaceHandler) List(ctx context.Context) ([]Resource, error) {
	enis, err := h.api.ListNetworkInterfaces(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Resource, 0, len(enis))
	for _, eni := range enis {
		out = append(out, Resource{ID: eni.ID, Values: networkInterfaceValues(eni)})
	}
	return out, nil
}

func (h *networkInterfaceHandler) Delete(ctx context.Context, r Resource) error {
	return h.api.DeleteNetworkInterface(ctx, r.ID)
}

type fileSystemHandler struct {
	ruleHandler
	api   aws.AuxiliaryAPI
	inUse retry.Policy
}

func (h *fileSystemHandler) Kind() Kind { return KindFileSystem }

func (h *fileSystemHandler) List(ctx context.Context) ([]Resource, error) {
	fss, err := h.api.ListFileSystems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Resource, 0, len(fss))
	for _, fs := range fss {
		out = append(out, Resource{ID: fs.ID, Values: fileSystemValues(fs)})
	}
	return out, nil
}

// Delete removes the mount targets of the file system, then deletes it,
// retrying while EFS still reports it in use.
func (h *fileSystemHandler) Delete(ctx context.Context, r Resource) error {
	mountTargets, err := h.api.ListMountTargets(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("failed to list mount targets: %w", err)
	}
	for _, mt := range mountTargets {
		if err := h.api.DeleteMountTarget(ctx, mt); err != nil && !aws.IsNotFound(err) {
			return fmt.Errorf("failed to delete mount target %s: %w", mt, err)
		}
	}

	return h.inUse.Do(ctx, func(int) error {
		err := h.api.DeleteFileSystem(ctx, r.ID)
		if err == nil || aws.IsInUse(err) {
			return err
		}
		return retry.Fatal(err)
	}, nil)
}

// sweep deletes every auxiliary resource matching the domain, one kind at
// a time. Failures are collected; one failed resource never stops the
// others.
func (o *Orchestrator) sweep(ctx context.Context, d aws.Domain, rep *DomainReport) error {
	errs := &CleanupError{}

	for _, h := range o.handlers {
		kind := h.Kind()
		resources, err := h.List(ctx)
		if err != nil {
			o.emit(Event{Type: EventResourceFailed, Domain: d.ID, Phase: "sweep", Kind: kind,
				Message: fmt.Sprintf("failed to list %s: %v", kind, err)})
			errs.Add(fmt.Errorf("failed to list %s: %w", kind, err))
			continue
		}

		matched := 0
		for _, r := range resources {
			if !h.Matches(r, d) {
				o.log.V(2).Info("no match", "domain", d.ID, "kind", string(kind), "id", r.ID)
				continue
			}
			matched++
			o.log.V(1).Info("matched", "domain", d.ID, "kind", string(kind), "id", r.ID, "values", r.Values)
			errs.Add(o.deleteResource(ctx, d, rep, kind, r.ID, func(ctx context.Context) error {
				return h.Delete(ctx, r)
			}))
		}
		o.log.V(1).Info("swept", "domain", d.ID, "kind", string(kind), "listed", len(resources), "matched", matched)
	}

	return errs.ErrOrNil()
}

// deleteResource records a resource and deletes it, or only announces it in
// a dry run. An already-deleted resource counts as deleted.
func (o *Orchestrator) deleteResource(ctx context.Context, d aws.Domain, rep *DomainReport, kind Kind, id string, del func(context.Context) error) error {
	rep.record(kind, id)

	if o.opts.DryRun {
		o.emit(Event{Type: EventResourceWouldDelete, Domain: d.ID, Kind: kind, Resource: id,
			Message: fmt.Sprintf("would delete %s", kind)})
		o.metrics.recordDeletion(kind, "would_delete")
		return nil
	}

	o.emit(Event{Type: EventResourceDeleting, Domain: d.ID, Kind: kind, Resource: id,
		Message: fmt.Sprintf("deleting %s", kind)})
	err := del(ctx)
	if errors.Is(err, errRetryLater) {
		o.log.V(1).Info("delete refused, dependents still deleting", "domain", d.ID, "kind", string(kind), "id", id)
		return nil
	}
	if err != nil && !aws.IsNotFound(err) {
		delErr := &DeleteError{Kind: kind, ID: id, Err: unwrapFatal(err)}
		rep.fail(kind, id, delErr.Err)
		o.emit(Event{Type: EventResourceFailed, Domain: d.ID, Kind: kind, Resource: id,
			Message: fmt.Sprintf("failed to delete %s: %v", kind, delErr.Err)})
		o.metrics.recordDeletion(kind, "failed")
		return delErr
	}

	o.emit(Event{Type: EventResourceDeleted, Domain: d.ID, Kind: kind, Resource: id,
		Message: fmt.Sprintf("%s deleted", kind)})
	o.metrics.recordDeletion(kind, "deleted")
	return nil
}

// unwrapFatal strips the retry.Fatal marker so reports show the API error.
func unwrapFatal(err error) error {
	var fatal *retry.FatalError
	if errors.As(err, &fatal) {
		return fatal.Err
	}
	return err
}
