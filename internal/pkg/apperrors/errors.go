package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrMalformedInput = errors.New("malformed input")

	ErrPayloadNotArray = fmt.Errorf("%w: payload must be a JSON array", ErrMalformedInput)

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	// ErrNoContent marks a well-formed query that has nothing to return.
	ErrNoContent = errors.New("no content")

	ErrUnauthorized = errors.New("unauthorized")

	ErrConflict = errors.New("resource conflict")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// BatchValidationError carries every record-level failure of a rejected batch.
// Markers are short machine codes aligned index by index with Messages.
type BatchValidationError struct {
	Messages []string
	Markers  []string
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("batch rejected with %d validation error(s): %s", len(e.Messages), strings.Join(e.Messages, "; "))
}

func (e *BatchValidationError) Unwrap() error {
	return ErrValidation
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	message := e.Message
	if e.Code != "" {
		message = fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return message + ": " + e.Cause.Error()
	}
	return message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WrapDatabaseError tags cause as ErrDatabase under a DB_ERROR code.
func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
