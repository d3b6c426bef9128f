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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrConfigExists  ErrorCode = "CONFIG_EXISTS"

	// Dispatch errors
	ErrNoPreviousRun          ErrorCode = "NO_PREVIOUS_RUN"
	ErrNoMatchingRule         ErrorCode = "NO_MATCHING_RULE"
	ErrUnknownActionSet       ErrorCode = "UNKNOWN_ACTION_SET"
	ErrUnsupportedActionSetID ErrorCode = "UNSUPPORTED_ACTION_SET_ID"
	ErrTemplateResolve        ErrorCode = "TEMPLATE_RESOLVE"
	ErrLaunchFailed           ErrorCode = "LAUNCH_FAILED"

	// Request errors
	ErrRequestParse ErrorCode = "REQUEST_PARSE"

	// Pipe errors
	ErrPipeCreate ErrorCode = "PIPE_CREATE"
	ErrPipeExists ErrorCode = "PIPE_EXISTS"
	ErrPipeRead   ErrorCode = "PIPE_READ"
)

// PilotError represents a structured error with code and details
type PilotError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PilotError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PilotError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PilotError) Is(target error) bool {
	var targetErr *PilotError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PilotError with the given code and message
func New(code ErrorCode, message string) *PilotError {
	return &PilotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PilotError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PilotError {
	return &PilotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PilotError
func Wrap(err error, code ErrorCode, message string) *PilotError {
	if err == nil {
		return nil
	}
	return &PilotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PilotError {
	if err == nil {
		return nil
	}
	return &PilotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PilotError) WithDetail(key string, value interface{}) *PilotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pilotErr *PilotError
	if errors.As(err, &pilotErr) {
		return pilotErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PilotError
func GetErrorCode(err error) ErrorCode {
	var pilotErr *PilotError
	if errors.As(err, &pilotErr) {
		return pilotErr.Code
	}
	return ErrUnknown
}
