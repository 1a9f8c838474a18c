package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers
// while carrying the original cause for logging.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code so wrapped instances compare equal to their
// sentinel (errors.Is(err, ErrStore) works on a NewStoreFailure result).
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Error taxonomy for the catalog core. NotFound is only used at the HTTP
// boundary; the repository reports missing documents as absent results.
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILURE",
		Message:    "Invalid arguments",
		StatusCode: http.StatusBadRequest,
	}

	ErrConversion = &AppError{
		Code:       "CONVERSION_FAILURE",
		Message:    "Entity conversion failed",
		StatusCode: http.StatusInternalServerError,
	}

	ErrStore = &AppError{
		Code:       "STORE_FAILURE",
		Message:    "Document store operation failed",
		StatusCode: http.StatusInternalServerError,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewStoreFailure wraps a store round-trip failure, keeping the cause.
func NewStoreFailure(op string, cause error) *AppError {
	return &AppError{
		Code:       ErrStore.Code,
		Message:    fmt.Sprintf("store %s failed", op),
		StatusCode: ErrStore.StatusCode,
		Internal:   cause,
	}
}

// NewConversionFailure wraps a field mapping failure, keeping the cause.
func NewConversionFailure(detail string, cause error) *AppError {
	return &AppError{
		Code:       ErrConversion.Code,
		Message:    detail,
		StatusCode: ErrConversion.StatusCode,
		Internal:   cause,
	}
}

// NewValidation builds a caller-argument validation failure.
func NewValidation(detail string) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    detail,
		StatusCode: ErrValidation.StatusCode,
	}
}

// NewBadRequest builds a request level error with a custom message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// FromError normalizes any error into an AppError for rendering.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}
