package parsing

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInput is matched by errors.Is for every UnsupportedInputError.
var ErrUnsupportedInput = errors.New("unsupported input")

// UnsupportedInputError is returned when a parse request has nothing to parse:
// no document and no way to obtain one.
type UnsupportedInputError struct {
	Message string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Message)
}

func (e *UnsupportedInputError) Unwrap() error {
	return ErrUnsupportedInput
}

// FetchError wraps a failure of the caller-supplied Fetcher.
type FetchError struct {
	Identity string
	Cause    error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.Identity, e.Cause)
	}
	return fmt.Sprintf("failed to fetch %s", e.Identity)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
