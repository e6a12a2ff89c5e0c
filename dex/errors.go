package dex

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the API key was missing or rejected.
	ErrUnauthorized = errors.New("dex API key is invalid or missing")
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited means the API returned 429 and retries were exhausted.
	ErrRateLimited = errors.New("dex API rate limit exceeded")
)

// APIError carries a non-2xx status the client has no dedicated error for.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dex API returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	other, ok := target.(*APIError)
	if !ok {
		return false
	}
	return other.Status == 0 || other.Status == e.Status
}

// DecodeError wraps a response body that could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode dex API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	_, ok := target.(*DecodeError)
	return ok
}

func statusError(status int, body string) error {
	switch status {
	case 401:
		return ErrUnauthorized
	case 404:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case 429:
		return ErrRateLimited
	default:
		return &APIError{Status: status, Message: body}
	}
}

func decodeError(err error) error {
	return &DecodeError{Err: err}
}
