package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors. Fatal, raised before any resource is processed.
	ErrConfig     ErrorCode = "CONFIG"
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// A location could not be opened or walked
	ErrLocation ErrorCode = "LOCATION"

	// Resource scoped errors
	ErrFilter   ErrorCode = "FILTER"
	ErrAction   ErrorCode = "ACTION"
	ErrConflict ErrorCode = "CONFLICT"

	// Template parse or render errors
	ErrTemplate ErrorCode = "TEMPLATE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
)

// TidyError represents a structured error with code and details
type TidyError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TidyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TidyError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TidyError) Is(target error) bool {
	var targetErr *TidyError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TidyError with the given code and message
func New(code ErrorCode, message string) *TidyError {
	return &TidyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TidyError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TidyError {
	return &TidyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TidyError
func Wrap(err error, code ErrorCode, message string) *TidyError {
	if err == nil {
		return nil
	}
	return &TidyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TidyError {
	if err == nil {
		return nil
	}
	return &TidyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TidyError) WithDetail(key string, value interface{}) *TidyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error, or any error it wraps, has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var tidyErr *TidyError
		if !errors.As(err, &tidyErr) {
			return false
		}
		if tidyErr.Code == code {
			return true
		}
		err = tidyErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a TidyError
func GetErrorCode(err error) ErrorCode {
	var tidyErr *TidyError
	if errors.As(err, &tidyErr) {
		return tidyErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TidyError
func GetErrorDetails(err error) map[string]interface{} {
	var tidyErr *TidyError
	if errors.As(err, &tidyErr) {
		return tidyErr.Details
	}
	return nil
}

// Message returns the human readable part of err without the code prefix.
// Used when reporting resource scoped failures to the user.
func Message(err error) string {
	var tidyErr *TidyError
	if !errors.As(err, &tidyErr) {
		return err.Error()
	}
	if tidyErr.Wrapped != nil {
		return fmt.Sprintf("%s: %s", tidyErr.Message, Message(tidyErr.Wrapped))
	}
	return tidyErr.Message
}
