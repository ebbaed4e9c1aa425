package teardown

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleObserver_Prefixes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		event  Event
		prefix string
	}{
		{"dry run", Event{Type: EventResourceWouldDelete, Domain: "d-1", Kind: KindApp, Resource: "a", Message: "would delete app"}, "[DRY RUN] [d-1] would delete app app=a"},
		{"failure", Event{Type: EventResourceFailed, Domain: "d-1", Kind: KindFunction, Resource: "fn", Message: "failed"}, "ERROR: [d-1] failed lambda-function=fn"},
		{"skipped", Event{Type: EventDomainSkipped, Domain: "d-2", Message: "skipping"}, "WARNING: [d-2] skipping"},
		{"info", Event{Type: EventPhaseStarted, Domain: "d-1", Phase: "apps", Message: "starting"}, "INFO: [d-1] [apps] starting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewConsoleObserver(&buf, false).Event(tt.event)
			assert.Equal(t, tt.prefix+"\n", buf.String())
		})
	}
}

func TestConsoleObserver_FieldsAreSorted(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewConsoleObserver(&buf, false).Event(Event{
		Type:    EventResourceDeleted,
		Message: "deleted",
		Fields:  map[string]string{"z": "1", "a": "2"},
	})
	assert.Equal(t, "INFO: deleted (a=2, z=1)\n", buf.String())
}

func TestConsoleObserver_PrintfAndWarnf(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	o := NewConsoleObserver(&buf, false)
	o.Printf("account %s", "123")
	o.Warnf("careful %d", 1)
	assert.Equal(t, "INFO: account 123\nWARNING: careful 1\n", buf.String())
}

func TestConsoleObserver_Color(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewConsoleObserver(&buf, true).Printf("hello")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRecordingObserver(t *testing.T) {
	t.Parallel()
	rec := &RecordingObserver{}
	logPhaseStart(rec, "d-1", "apps")
	logPhaseFailed(rec, "d-1", "apps", errors.New("boom"))
	rec.Printf("line %d", 1)

	assert.Len(t, rec.OfType(EventPhaseStarted), 1)
	assert.Equal(t, "failed: boom", rec.OfType(EventPhaseFailed)[0].Message)
	assert.Equal(t, []string{"line 1"}, rec.Lines)
}
