package teardown

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind names a resource collection in reports, events and metrics.
type Kind string

// Resource kinds, in the order they are torn down.
const (
	KindApp              Kind = "app"
	KindSpace            Kind = "space"
	KindUserProfile      Kind = "user-profile"
	KindFunction         Kind = "lambda-function"
	KindNetworkInterface Kind = "network-interface"
	KindFileSystem       Kind = "efs-file-system"
	KindDomain           Kind = "domain"
)

var kindOrder = map[Kind]int{
	KindApp:              0,
	KindSpace:            1,
	KindUserProfile:      2,
	KindFunction:         3,
	KindNetworkInterface: 4,
	KindFileSystem:       5,
	KindDomain:           6,
}

// Outcome classifies a domain or a whole run.
type Outcome string

// Outcomes. NothingToDo applies only to whole runs.
const (
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomePartial     Outcome = "partial"
	OutcomeFailed      Outcome = "failed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeNothingToDo Outcome = "nothing-to-do"
)

// Group lists the resources of one kind.
type Group struct {
	Kind Kind     `yaml:"kind"`
	IDs  []string `yaml:"ids"`
}

// Failure records a resource that could not be deleted.
type Failure struct {
	Kind  Kind   `yaml:"kind"`
	ID    string `yaml:"id"`
	Error string `yaml:"error"`
}

// DomainReport is the result of tearing down one domain.
type DomainReport struct {
	DomainID   string    `yaml:"domain_id"`
	DomainName string    `yaml:"domain_name,omitempty"`
	Outcome    Outcome   `yaml:"outcome"`
	Reason     string    `yaml:"reason,omitempty"`
	Unresolved bool      `yaml:"unresolved,omitempty"`
	Resources  []Group   `yaml:"resources,omitempty"`
	Failures   []Failure `yaml:"failures,omitempty"`
	// DomainDeleted is set once the domain delete call succeeded, or would
	// have been issued in a dry run.
	DomainDeleted bool `yaml:"domain_deleted"`

	seen map[string]bool
}

func newDomainReport(id, name string) *DomainReport {
	return &DomainReport{DomainID: id, DomainName: name, seen: make(map[string]bool)}
}

// record adds a resource once, keeping groups in teardown order.
func (r *DomainReport) record(kind Kind, id string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	key := string(kind) + "/" + id
	if r.seen[key] {
		return
	}
	r.seen[key] = true

	for i := range r.Resources {
		if r.Resources[i].Kind == kind {
			r.Resources[i].IDs = append(r.Resources[i].IDs, id)
			return
		}
	}
	r.Resources = append(r.Resources, Group{Kind: kind, IDs: []string{id}})
	sort.SliceStable(r.Resources, func(i, j int) bool {
		return kindOrder[r.Resources[i].Kind] < kindOrder[r.Resources[j].Kind]
	})
}

func (r *DomainReport) fail(kind Kind, id string, err error) {
	r.Failures = append(r.Failures, Failure{Kind: kind, ID: id, Error: err.Error()})
}

// IDs returns the recorded resources of kind.
func (r *DomainReport) IDs(kind Kind) []string {
	for _, g := range r.Resources {
		if g.Kind == kind {
			return g.IDs
		}
	}
	return nil
}

// Count returns the number of recorded resources across all kinds.
func (r *DomainReport) Count() int {
	n := 0
	for _, g := range r.Resources {
		n += len(g.IDs)
	}
	return n
}

// Report is the result of a whole run.
type Report struct {
	DryRun     bool            `yaml:"dry_run"`
	Region     string          `yaml:"region,omitempty"`
	Account    string          `yaml:"account,omitempty"`
	Selector   string          `yaml:"selector"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	Outcome    Outcome         `yaml:"outcome"`
	Domains    []*DomainReport `yaml:"domains"`
}

// Finish stamps the end time and derives the run outcome.
func (r *Report) Finish(now time.Time) {
	r.FinishedAt = now
	r.Outcome = r.deriveOutcome()
}

func (r *Report) deriveOutcome() Outcome {
	if len(r.Domains) == 0 {
		return OutcomeNothingToDo
	}
	var failed, partial, succeeded bool
	for _, d := range r.Domains {
		switch d.Outcome {
		case OutcomeFailed:
			failed = true
		case OutcomePartial:
			partial = true
		case OutcomeSkipped:
			if d.Unresolved {
				partial = true
			}
		case OutcomeSucceeded:
			succeeded = true
		}
	}
	switch {
	case failed:
		return OutcomeFailed
	case partial:
		return OutcomePartial
	case succeeded:
		return OutcomeSucceeded
	default:
		return OutcomeNothingToDo
	}
}

// Domain returns the report of a domain, or nil.
func (r *Report) Domain(id string) *DomainReport {
	for _, d := range r.Domains {
		if d.DomainID == id {
			return d
		}
	}
	return nil
}

// YAML renders the report for archiving.
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// WriteText prints the per-domain resource lists grouped by kind. Failed
// deletions are listed under their kind and again with their error.
func (r *DomainReport) WriteText(w io.Writer, dryRun bool) {
	verb := "Targeted"
	if dryRun {
		verb = "Would delete"
	}
	name := r.DomainID
	if r.DomainName != "" {
		name = fmt.Sprintf("%s (%s)", r.DomainID, r.DomainName)
	}
	fmt.Fprintf(w, "Domain %s: %s\n", name, r.Outcome)
	if r.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", r.Reason)
	}
	for _, g := range r.Resources {
		fmt.Fprintf(w, "  %s %d %s: %s\n", verb, len(g.IDs), g.Kind, strings.Join(g.IDs, ", "))
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  Failed %s %s: %s\n", f.Kind, f.ID, f.Error)
	}
}
