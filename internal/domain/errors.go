package domain

import "errors"

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failure
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates insufficient permissions
	ErrForbidden = errors.New("forbidden")

	// ErrConnection indicates a connection failure
	ErrConnection = errors.New("connection failed")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("timeout")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrInvalidArgument indicates a caller contract violation, such as a nil stream
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedPayload indicates the DVR response is not the expected JSON envelope
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrResponseTooLarge indicates the DVR response body exceeded the read limit
	ErrResponseTooLarge = errors.New("response too large")

	// ErrMalformedField indicates a numeric, date or day-of-week field failed to parse
	ErrMalformedField = errors.New("malformed field")
)
