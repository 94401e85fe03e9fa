package domain

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorConstants tests that all error constants are defined correctly
func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrConnection", ErrConnection, "connection failed"},
		{"ErrTimeout", ErrTimeout, "timeout"},
		{"ErrInternal", ErrInternal, "internal error"},
		{"ErrInvalidArgument", ErrInvalidArgument, "invalid argument"},
		{"ErrMalformedPayload", ErrMalformedPayload, "malformed payload"},
		{"ErrMalformedField", ErrMalformedField, "malformed field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s should not be nil", tt.name)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error message: got %q, want %q", tt.err.Error(), tt.msg)
			}
		})
	}
}

// TestErrorUniqueness tests that all error constants are distinct
func TestErrorUniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrConnection,
		ErrTimeout,
		ErrInternal,
		ErrInvalidArgument,
		ErrMalformedPayload,
		ErrMalformedField,
	}

	for i := 0; i < len(allErrors); i++ {
		for j := i + 1; j < len(allErrors); j++ {
			if errors.Is(allErrors[i], allErrors[j]) {
				t.Errorf("Errors at index %d and %d are identical: %v", i, j, allErrors[i])
			}
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: PrePadding %q", ErrMalformedField, "abc")

	if !errors.Is(wrapped, ErrMalformedField) {
		t.Fatal("wrapped error should match ErrMalformedField")
	}
	if errors.Is(wrapped, ErrMalformedPayload) {
		t.Fatal("wrapped field error must not match ErrMalformedPayload")
	}
	if got, want := wrapped.Error(), `malformed field: PrePadding "abc"`; got != want {
		t.Fatalf("Error()=%q, want %q", got, want)
	}
}
