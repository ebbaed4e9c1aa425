// Package retry provides bounded exponential backoff for operations that
// wait on external state.
//
// [Policy.Do] retries an operation until it succeeds, the attempt or
// elapsed-time budget is spent, or the context ends. A spent budget is
// reported as an [ExhaustedError] so callers can tell "gave up" apart
// from a hard failure. Errors wrapped with [Fatal] stop immediately.
package retry
