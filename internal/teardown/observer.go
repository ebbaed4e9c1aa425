package teardown

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Observer receives progress from a teardown run.
type Observer interface {
	// Printf writes a free-form progress line.
	Printf(format string, v ...interface{})
	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured teardown event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "apps", "sweep")
	Domain    string            // Domain ID the event belongs to
	Kind      Kind              // Resource kind if applicable
	Resource  string            // Resource ID if applicable
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of teardown event.
type EventType string

const (
	// EventPhaseStarted indicates a teardown phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a teardown phase completed.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a teardown phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceDeleting indicates a delete call is being issued.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a delete call succeeded.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceWouldDelete replaces a delete call in a dry run.
	EventResourceWouldDelete EventType = "resource.would-delete"
	// EventResourceFailed indicates a delete call failed.
	EventResourceFailed EventType = "resource.failed"

	// EventDomainSkipped indicates a domain is left untouched.
	EventDomainSkipped EventType = "domain.skipped"
)

// ConsoleObserver writes line-oriented progress through a standard logger,
// prefixing each line with a colored severity.
type ConsoleObserver struct {
	logger *log.Logger

	info    *color.Color
	warning *color.Color
	errorC  *color.Color
	dryRun  *color.Color
}

// NewConsoleObserver creates an observer writing to w. Colors are used only
// when useColor is set.
func NewConsoleObserver(w io.Writer, useColor bool) *ConsoleObserver {
	o := &ConsoleObserver{
		logger:  log.New(w, "", 0),
		info:    color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		errorC:  color.New(color.FgRed, color.Bold),
		dryRun:  color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{o.info, o.warning, o.errorC, o.dryRun} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.logger.Printf("%s %s", o.info.Sprint("INFO:"), fmt.Sprintf(format, v...))
}

// Warnf writes a warning line.
func (o *ConsoleObserver) Warnf(format string, v ...interface{}) {
	o.logger.Printf("%s %s", o.warning.Sprint("WARNING:"), fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	o.logger.Print(o.prefix(event.Type) + " " + formatEvent(event))
}

func (o *ConsoleObserver) prefix(t EventType) string {
	switch t {
	case EventResourceWouldDelete:
		return o.dryRun.Sprint("[DRY RUN]")
	case EventResourceFailed, EventPhaseFailed:
		return o.errorC.Sprint("ERROR:")
	case EventDomainSkipped:
		return o.warning.Sprint("WARNING:")
	default:
		return o.info.Sprint("INFO:")
	}
}

// formatEvent formats an event for console output.
func formatEvent(event Event) string {
	var parts []string

	if event.Domain != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Domain))
	}
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	parts = append(parts, event.Message)
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", kindOrResource(event.Kind), event.Resource))
	}

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

func kindOrResource(k Kind) string {
	if k == "" {
		return "resource"
	}
	return string(k)
}

// NopObserver discards everything.
type NopObserver struct{}

// Printf implements Observer.
func (NopObserver) Printf(string, ...interface{}) {}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// RecordingObserver keeps every event, for tests and summaries.
type RecordingObserver struct {
	Events []Event
	Lines  []string
}

// Printf implements Observer.
func (r *RecordingObserver) Printf(format string, v ...interface{}) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (r *RecordingObserver) Event(event Event) {
	r.Events = append(r.Events, event)
}

// OfType returns the recorded events of type t.
func (r *RecordingObserver) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// logPhaseStart logs a phase start event.
func logPhaseStart(observer Observer, domain, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Domain:  domain,
		Phase:   phase,
		Message: "starting",
	})
}

// logPhaseComplete logs a phase completion event.
func logPhaseComplete(observer Observer, domain, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Domain:  domain,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// logPhaseFailed logs a phase failure event.
func logPhaseFailed(observer Observer, domain, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Domain:  domain,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}
