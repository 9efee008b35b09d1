package tools

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed invocation so callers can decide whether
// the failure is caller-fixable (bad arguments), retryable (capacity), or
// a lower-layer fault surfaced through the dispatcher.
type ErrorKind string

const (
	// KindInvalidArgument marks a bad, missing, or out-of-range parameter.
	KindInvalidArgument ErrorKind = "invalid_argument"

	// KindNotFound marks an unknown session, a missing element, or a
	// selector wait that timed out.
	KindNotFound ErrorKind = "not_found"

	// KindCapacityExceeded marks a session-create attempt at the admission cap.
	KindCapacityExceeded ErrorKind = "capacity_exceeded"

	// KindUnknownTool marks a call to a name the registry has no descriptor for.
	KindUnknownTool ErrorKind = "unknown_tool"

	// KindExecutionFailed wraps any failure raised past validation,
	// including automation-driver errors. The original message is preserved.
	KindExecutionFailed ErrorKind = "execution_failed"
)

// Error is the typed failure returned from dispatch. It carries a kind for
// programmatic handling and a message for the planner to reason over.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// InvalidArgumentf builds an InvalidArgument error.
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// CapacityExceededf builds a CapacityExceeded error.
func CapacityExceededf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

// ExecutionFailedf builds an ExecutionFailed error.
func ExecutionFailedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExecutionFailed, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a typed *Error from err, wrapping anything else as
// ExecutionFailed with the original message preserved.
func AsError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: KindExecutionFailed, Message: err.Error()}
}

// Result is the outcome of a single tool invocation. Exactly one of Text
// or Err is meaningful; there are no partial or streaming results.
type Result struct {
	Text string
	Err  *Error
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success builds a successful result carrying a text payload.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure builds a failed result from a typed error.
func Failure(err *Error) Result {
	return Result{Err: err}
}
