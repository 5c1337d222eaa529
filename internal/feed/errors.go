package feed

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport failure (DNS, timeout, reset).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError reports a response status outside 200-299.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// EmptyBodyError reports a successful status with no body.
type EmptyBodyError struct{}

func (*EmptyBodyError) Error() string { return "response body is empty" }

// ErrEmptyBody is returned for zero-length bodies.
var ErrEmptyBody error = &EmptyBodyError{}

// DecodeError reports a body that is not the expected JSON document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode blog response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the error class for logging.
func Kind(err error) string {
	var (
		netErr    *NetworkError
		statusErr *HTTPStatusError
		emptyErr  *EmptyBodyError
		decodeErr *DecodeError
	)
	switch {
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.As(err, &emptyErr):
		return "empty_body"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "unknown"
	}
}
