package imagetools

import (
	"errors"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrMissingParameter
	ErrBadParameter
	ErrExternalService
	ErrTimeout
	ErrInternalServerError
)

// Envelope error kinds, as carried in the "error_kind" field of a
// tool response.
const (
	KindUnknownTool          = "UnknownTool"
	KindMissingParameter     = "MissingParameter"
	KindInvalidParameter     = "InvalidParameter"
	KindExternalServiceError = "ExternalServiceError"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrMissingParameter:
		return "missing parameter"
	case ErrBadParameter:
		return "bad parameter"
	case ErrExternalService:
		return "external service error"
	case ErrTimeout:
		return "external service timed out"
	case ErrInternalServerError:
		return "internal server error"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Kind maps an error to its envelope error kind. Validation errors keep
// their own kinds; everything else, including timeouts and errors from
// external collaborators, is surfaced as ExternalServiceError.
func Kind(err error) string {
	var e Err
	if !errors.As(err, &e) {
		return KindExternalServiceError
	}
	switch e {
	case ErrNotFound:
		return KindUnknownTool
	case ErrMissingParameter:
		return KindMissingParameter
	case ErrBadParameter:
		return KindInvalidParameter
	default:
		return KindExternalServiceError
	}
}
