package shared

import (
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// FetchFailedMessage is the user-facing message recorded when acquisition fails.
const FetchFailedMessage = "Failed to fetch data"

var (
	// ErrTimeout matches every TimeoutError.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork matches every NetworkError.
	ErrNetwork = errors.New("network failure")
)

// TimeoutError is returned when a request does not complete before its deadline.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
	cause    error
}

// NewTimeoutError initializes a timeout error for the provided endpoint.
func NewTimeoutError(endpoint string, timeout time.Duration, cause error) *TimeoutError {
	if cause == nil {
		cause = ErrTimeout
	}

	return &TimeoutError{
		Endpoint: endpoint,
		Timeout:  timeout,
		cause:    pkgerrors.WithStack(cause),
	}
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetching %s: timed out after %s", e.Endpoint, e.Timeout)
}

// Unwrap returns the underlying cause.
func (e *TimeoutError) Unwrap() error {
	return e.cause
}

// Is reports whether the target is the timeout sentinel.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NetworkError is returned when a request fails for any reason other than a
// timeout: transport failures, non-2xx statuses and malformed responses.
type NetworkError struct {
	Endpoint string
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

// NewNetworkError initializes a network error for the provided endpoint.
func NewNetworkError(endpoint string, statusCode int, cause error) *NetworkError {
	return &NetworkError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        pkgerrors.WithStack(cause),
	}
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetching %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether the target is the network sentinel.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
