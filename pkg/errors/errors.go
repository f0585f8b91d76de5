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
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Preflight errors
	ErrPreflightBlocked ErrorCode = "PREFLIGHT_BLOCKED"
	ErrRelocate         ErrorCode = "RELOCATE"

	// Package installer errors
	ErrBrewInstall ErrorCode = "BREW_INSTALL"
	ErrBrewApply   ErrorCode = "BREW_APPLY"
	ErrProfileEdit ErrorCode = "PROFILE_EDIT"

	// Shell framework errors
	ErrFrameworkInstall ErrorCode = "FRAMEWORK_INSTALL"
	ErrPluginClone      ErrorCode = "PLUGIN_CLONE"

	// Link manager errors
	ErrBackup        ErrorCode = "BACKUP"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrStowInvoke    ErrorCode = "STOW_INVOKE"

	// Theme fetcher errors
	ErrThemeFetch ErrorCode = "THEME_FETCH"

	// Identity errors
	ErrIdentityRead  ErrorCode = "IDENTITY_READ"
	ErrIdentityWrite ErrorCode = "IDENTITY_WRITE"

	// External tool errors
	ErrCommandRun ErrorCode = "COMMAND_RUN"
	ErrGitClone   ErrorCode = "GIT_CLONE"
	ErrGitPull    ErrorCode = "GIT_PULL"
)

// DotstrapError represents a structured error with code and details
type DotstrapError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotstrapError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotstrapError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotstrapError) Is(target error) bool {
	var targetErr *DotstrapError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotstrapError with the given code and message
func New(code ErrorCode, message string) *DotstrapError {
	return &DotstrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotstrapError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotstrapError {
	return &DotstrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotstrapError
func Wrap(err error, code ErrorCode, message string) *DotstrapError {
	if err == nil {
		return nil
	}
	return &DotstrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotstrapError {
	if err == nil {
		return nil
	}
	return &DotstrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotstrapError) WithDetail(key string, value interface{}) *DotstrapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dsErr *DotstrapError
	if errors.As(err, &dsErr) {
		return dsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotstrapError
func GetErrorCode(err error) ErrorCode {
	var dsErr *DotstrapError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrUnknown
}
