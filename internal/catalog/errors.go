package catalog

import (
	"errors"
	"fmt"
)

// ErrRejected is returned when the catalog answers with valid JSON whose
// success flag is false. Callers report it and stop; it is not a transport
// failure.
var ErrRejected = errors.New("catalog reported an unsuccessful query")

// ValidationError indicates a malformed query. It is always raised before
// any network activity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError indicates a non-success HTTP status from the records endpoint.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}

// ResponseFormatError indicates the catalog body was not valid JSON.
type ResponseFormatError struct {
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("catalog response is not valid JSON: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
