// Package errors defines the stable error code system for create-solana-starter.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract.
const (
	EUsage          Code = "E_USAGE"
	EInvalidAppName Code = "E_INVALID_APP_NAME"
	EInvalidConfig  Code = "E_INVALID_CONFIG"
	EInternal       Code = "E_INTERNAL"
	EProjectExists  Code = "E_PROJECT_EXISTS"
	EInterrupted    Code = "E_INTERRUPTED"

	// External tool error codes
	ECommandFailed      Code = "E_COMMAND_FAILED"
	ECommandStartFailed Code = "E_COMMAND_START_FAILED"
	EAddressUnresolved  Code = "E_ADDRESS_UNRESOLVED"
	EToolNotInstalled   Code = "E_TOOL_NOT_INSTALLED"

	// Filesystem and sandbox error codes
	EWriteFailed   Code = "E_WRITE_FAILED"
	ESandboxFailed Code = "E_SANDBOX_FAILED"
	ESandboxLocked Code = "E_SANDBOX_LOCKED"
)

// StarterError is the standard error type for create-solana-starter errors.
type StarterError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *StarterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *StarterError) Unwrap() error {
	return e.Cause
}

// New creates a new StarterError with the given code and message.
func New(code Code, msg string) error {
	return &StarterError{Code: code, Msg: msg}
}

// NewWithDetails creates a new StarterError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &StarterError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new StarterError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &StarterError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new StarterError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &StarterError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a StarterError.
func GetCode(err error) Code {
	var se *StarterError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// AsStarterError returns (*StarterError, true) if err is or wraps a StarterError.
func AsStarterError(err error) (*StarterError, bool) {
	var se *StarterError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the process exit code for an error.
// Returns 0 if err is nil and 1 for every error, usage errors included.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//	command: <command line>    (only for command failures)
//	step: <step name>          (only for pipeline failures)
//
// The failing command's output is not repeated here; the runner has already
// streamed it.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var se *StarterError
	if errors.As(err, &se) {
		fmt.Fprintf(w, "error_code: %s\n", se.Code)
		fmt.Fprintln(w, se.Msg)
		if cmd := se.Details["command"]; cmd != "" {
			fmt.Fprintf(w, "command: %s\n", cmd)
		}
		if step := se.Details["step"]; step != "" {
			fmt.Fprintf(w, "step: %s\n", step)
		}
	} else {
		fmt.Fprintln(w, err.Error())
	}
}
