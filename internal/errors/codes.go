package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for session operations.
type ErrorCode string

const (
	// ErrCodeValidation indicates a missing or malformed request field.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeNotFound indicates the requested session key does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeStore indicates a key-value store network or service failure.
	ErrCodeStore ErrorCode = "STORE"
	// ErrCodeParse indicates a stored document could not be decoded.
	ErrCodeParse ErrorCode = "PARSE"
	// ErrCodeGeneration indicates an AI provider failure after retries.
	ErrCodeGeneration ErrorCode = "GENERATION"
)

// Error represents a structured error for session operations.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg}
}

// StoreFailure creates a store error wrapping the underlying failure.
func StoreFailure(msg string, cause error) *Error {
	return &Error{Code: ErrCodeStore, Message: msg, Cause: cause}
}

// ParseFailure creates a parse error wrapping the underlying failure.
func ParseFailure(msg string, cause error) *Error {
	return &Error{Code: ErrCodeParse, Message: msg, Cause: cause}
}

// Generation creates a generation error wrapping the provider failure.
func Generation(msg string, cause error) *Error {
	return &Error{Code: ErrCodeGeneration, Message: msg, Cause: cause}
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from any error.
// Returns the provided default code if the error is not an *Error.
func GetCode(err error, defaultCode ErrorCode) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return defaultCode
}
