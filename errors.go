// Package gpucopy structured error types for better error handling
package gpucopy

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Memory errors
	ErrTypeMemory ErrorType = iota
	// Invalid argument errors
	ErrTypeInvalidArg
	// Kernel launch errors
	ErrTypeLaunch
	// Device errors
	ErrTypeDevice
)

// CopyError represents a structured error with context
type CopyError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *CopyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gpucopy %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("gpucopy %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *CopyError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeMemory:
		return "Memory"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeLaunch:
		return "LaunchFailure"
	case ErrTypeDevice:
		return "Device"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewMemoryError creates a memory-related error
func NewMemoryError(op string, message string, err error) error {
	return &CopyError{
		Type:    ErrTypeMemory,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &CopyError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewLaunchError creates a kernel launch error
func NewLaunchError(op string, message string, err error) error {
	return &CopyError{
		Type:    ErrTypeLaunch,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Common pre-defined errors

var (
	// ErrOutOfMemory indicates memory allocation failure
	ErrOutOfMemory = NewMemoryError("Malloc", "out of memory", nil)

	// ErrInvalidSize indicates invalid size parameter
	ErrInvalidSize = NewInvalidArgError("Malloc", "size must be positive")

	// ErrDoubleFree indicates double free attempt
	ErrDoubleFree = NewMemoryError("Free", "double free detected", nil)

	// ErrNilStream indicates a launch attempt without a stream
	ErrNilStream = NewLaunchError("Launch", "nil stream", nil)

	// ErrStreamClosed indicates a launch on a closed stream
	ErrStreamClosed = NewLaunchError("Launch", "stream is closed", nil)

	// ErrZeroGeometry indicates a launch with an empty grid or block
	ErrZeroGeometry = NewLaunchError("Launch", "zero-sized launch geometry", nil)
)

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	if e, ok := err.(*CopyError); ok {
		return e.Type == ErrTypeMemory
	}
	return false
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	if e, ok := err.(*CopyError); ok {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}

// IsLaunchError checks if an error is a kernel launch error
func IsLaunchError(err error) bool {
	if e, ok := err.(*CopyError); ok {
		return e.Type == ErrTypeLaunch
	}
	return false
}
