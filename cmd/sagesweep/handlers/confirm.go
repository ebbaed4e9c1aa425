package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/sagesweep/internal/teardown"
)

// confirmTeardown asks the operator to approve a live run.
var confirmTeardown = confirm

func confirm(ctx context.Context, res *teardown.Resolution) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d SageMaker domain(s) and everything in them?", len(res.Targets))).
				Description(describeTargets(res)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// describeTargets lists the resolved domains, and the IDs that could not be
// resolved, one per line.
func describeTargets(res *teardown.Resolution) string {
	var b strings.Builder
	for _, d := range res.Targets {
		fmt.Fprintf(&b, "  %s (%s)\n", d.ID, d.Name)
	}
	for _, miss := range res.Misses {
		fmt.Fprintf(&b, "  %s (skipped: unresolved)\n", miss.DomainID)
	}
	b.WriteString("This cannot be undone.")
	return b.String()
}
