package nextpvr

import (
	"fmt"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

// FieldError reports a raw field that could not be parsed. It matches
// domain.ErrMalformedField with errors.Is.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%v: %s %q", domain.ErrMalformedField, e.Field, e.Value)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrMalformedField}
	}
	return []error{domain.ErrMalformedField, e.Err}
}

// UpstreamError wraps a failed request to the NextPVR web API.
type UpstreamError struct {
	Sentinel  error
	Operation string
	Status    int
	Err       error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("nextpvr: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Sentinel
}
