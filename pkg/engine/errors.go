package engine

import (
	"fmt"
	"time"
)

// ExecError reports a non-zero engine exit. Stderr carries the engine's
// diagnostic output when it produced any.
type ExecError struct {
	Script string
	Stderr string
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("analysis engine script failed: %s", e.Script)
}

// ResponseFormatError reports engine output that could not be parsed as
// a JSON payload even with the tolerant fallback.
type ResponseFormatError struct {
	Script string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("invalid JSON response from analysis engine: %s", e.Script)
}

// TimeoutError reports an engine invocation killed after exceeding its
// wall-clock budget.
type TimeoutError struct {
	Script  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("analysis engine script %s timed out after %s", e.Script, e.Timeout)
}
