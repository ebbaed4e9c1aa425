package teardown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/sagesweep/internal/platform/aws"
)

// Selector picks the domains of a run. Exactly one field must be set.
type Selector struct {
	// ProjectID selects domains whose name ends with it (case-sensitive).
	ProjectID string
	// DomainIDs selects domains by identifier, in order.
	DomainIDs []string
}

// Validate checks that exactly one selector is supplied.
func (s Selector) Validate() error {
	hasProject := s.ProjectID != ""
	hasIDs := len(s.DomainIDs) > 0
	switch {
	case hasProject && hasIDs:
		return &UsageError{Msg: "--project-id and --domain-ids are mutually exclusive"}
	case !hasProject && !hasIDs:
		return &UsageError{Msg: "one of --project-id or --domain-ids is required"}
	}
	return nil
}

// String describes the selector for logs and reports.
func (s Selector) String() string {
	if s.ProjectID != "" {
		return "project-id=" + s.ProjectID
	}
	return "domain-ids=" + strings.Join(s.DomainIDs, ",")
}

// ParseDomainIDs splits a comma-separated list, trimming blanks and
// dropping empty and repeated entries while keeping the input order.
func ParseDomainIDs(s string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Resolution is the outcome of resolving a Selector.
type Resolution struct {
	Selector Selector
	Targets  []aws.Domain
	Misses   []*ResolutionError
}

// Empty reports whether the selector matched nothing at all.
func (r *Resolution) Empty() bool {
	return len(r.Targets) == 0 && len(r.Misses) == 0
}

// FilterBySuffix keeps the domains whose name ends with suffix, in order.
func FilterBySuffix(domains []aws.Domain, suffix string) []aws.Domain {
	var out []aws.Domain
	for _, d := range domains {
		if strings.HasSuffix(d.Name, suffix) {
			out = append(out, d)
		}
	}
	return out
}

// Resolve turns the selector into target domains. A failed domain listing
// is returned as an error; an unresolvable domain ID is recorded as a miss.
func Resolve(ctx context.Context, api aws.DomainAPI, sel Selector) (*Resolution, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	res := &Resolution{Selector: sel}
	if sel.ProjectID != "" {
		domains, err := api.ListDomains(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list domains: %w", err)
		}
		res.Targets = FilterBySuffix(domains, sel.ProjectID)
		return res, nil
	}

	for _, id := range sel.DomainIDs {
		d, err := api.DescribeDomain(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			res.Misses = append(res.Misses, &ResolutionError{DomainID: id, Err: err})
			continue
		}
		if d == nil || d.Name == "" {
			res.Misses = append(res.Misses, &ResolutionError{DomainID: id, Err: errors.New("domain has no name")})
			continue
		}
		res.Targets = append(res.Targets, *d)
	}
	return res, nil
}
