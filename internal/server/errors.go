package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-parser/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var unsupported *parsing.UnsupportedInputError
	var fetchErr *parsing.FetchError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine-readable error code for an error response.
func errorCode(err error) string {
	var validationErr *ErrValidation
	var fetchErr *parsing.FetchError

	switch {
	case errors.Is(err, parsing.ErrUnsupportedInput):
		return "unsupported_input"
	case errors.As(err, &validationErr):
		return "invalid_request"
	case errors.As(err, &fetchErr):
		return "fetch_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal_error"
	}
}

// fromValidator converts the first validator failure to an ErrValidation.
func fromValidator(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}
