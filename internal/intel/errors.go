package intel

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineFailure is the single error kind reported for any failed
	// model request: transport errors, non-JSON output and output that does
	// not match the declared schema alike. Use errors.Is to detect it.
	ErrEngineFailure = errors.New("intelligence engine failure")

	// ErrMissingInput is returned before any network call when a required URL is empty.
	ErrMissingInput = errors.New("missing input: target and home turf URLs are required")

	// ErrNoAPIKey is returned by New when no API key is given.
	ErrNoAPIKey = errors.New("gemini API key is required")
)

// EngineError records which operation failed and why.
// It matches ErrEngineFailure with errors.Is and unwraps to the cause.
type EngineError struct {
	// Op is the operation: "deep scan", "live news" or "tactical rebuttals".
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrEngineFailure, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEngineFailure.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngineFailure
}

func engineError(op string, err error) error {
	return &EngineError{Op: op, Err: err}
}
