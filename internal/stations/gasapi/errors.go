package gasapi

import "fmt"

// NetworkError indicates the request never produced a response: connection
// refused, DNS failure, timeout. Terminal for the call; the client never
// retries on its own.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gasapi: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError indicates the backend responded with a non-2xx status.
// Message carries the backend's error detail when it sent one.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gasapi: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gasapi: %s: unexpected status code: %d", e.Op, e.StatusCode)
}
