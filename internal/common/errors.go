package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error kinds caught at the per-file processing boundary. Everything wrapping
// one of these is recorded as a batch failure entry instead of aborting the run.
var (
	// ErrExtraction means a file's required fields could not be located.
	ErrExtraction = errors.New("extraction failed")
	// ErrResolution means locality or week could not be determined.
	ErrResolution = errors.New("resolution failed")
	// ErrDependencyUnavailable means a format backend is missing; files of
	// that format are skipped, not failed.
	ErrDependencyUnavailable = errors.New("parsing backend unavailable")
	// ErrInvalidInput covers bad configuration or arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ExtractionErrorf builds an ErrExtraction with a formatted reason.
func ExtractionErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrExtraction, fmt.Sprintf(format, args...))
}

// ResolutionErrorf builds an ErrResolution with a formatted reason.
func ResolutionErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrResolution, fmt.Sprintf(format, args...))
}

// IsPerFileError reports whether err is one of the non-fatal per-file kinds.
func IsPerFileError(err error) bool {
	return errors.Is(err, ErrExtraction) || errors.Is(err, ErrResolution)
}
