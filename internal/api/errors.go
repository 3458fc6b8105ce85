package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped in a *NetworkError) when the API answers 404.
var ErrNotFound = errors.New("resource not found")

// NetworkError reports a failed call to the API: transport failures, error
// status codes and undecodable bodies.
type NetworkError struct {
	Method     string
	Resource   string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Resource, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s: %v", e.Method, e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
