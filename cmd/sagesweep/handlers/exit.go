package handlers

import (
	"errors"
	"fmt"

	"github.com/imamik/sagesweep/internal/teardown"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitPartial = 2
	ExitFailed  = 3
)

// ExitError carries a non-zero batch outcome up to main.
type ExitError struct {
	Code    int
	Outcome teardown.Outcome
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("teardown finished with outcome %s", e.Outcome)
}

// ExitCode maps an error returned by a command to the process exit code.
// Errors without an outcome are usage or setup errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// outcomeError returns nil for outcomes that exit zero.
func outcomeError(outcome teardown.Outcome) error {
	switch outcome {
	case teardown.OutcomePartial:
		return &ExitError{Code: ExitPartial, Outcome: outcome}
	case teardown.OutcomeFailed:
		return &ExitError{Code: ExitFailed, Outcome: outcome}
	default:
		return nil
	}
}
