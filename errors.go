package atatrim

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// Error represents a structured trim-pipeline error with context and errno mapping
type Error struct {
	Op    string        // Operation that failed (e.g., "IDENTIFY_DEVICE", "DSM_TRIM")
	Port  int           // Device port (-1 if not applicable)
	Code  ErrorCode     // High-level error category
	Errno syscall.Errno // Kernel errno (0 if not applicable)
	Msg   string        // Human-readable message
	Inner error         // Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Port >= 0 {
		parts = append(parts, fmt.Sprintf("port=%d", e.Port))
	}

	if e.Errno != 0 {
		parts = append(parts, fmt.Sprintf("errno=%d", e.Errno))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("atatrim: %s (%s)", msg, strings.Join(parts, ", "))
	}

	return fmt.Sprintf("atatrim: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support by error category
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}

	return false
}

// ErrorCode represents high-level error categories. They map one-to-one to
// the outcomes an erase caller can act on: bad input, no such device, a
// device without TRIM, a failed command round trip, or a buffer that could
// not be obtained.
type ErrorCode string

const (
	ErrCodeInvalidParameters ErrorCode = "invalid parameters"
	ErrCodeDeviceNotFound    ErrorCode = "device not found"
	ErrCodeNotSupported      ErrorCode = "not supported"
	ErrCodeTransportFailure  ErrorCode = "transport failure"
	ErrCodeAllocationFailure ErrorCode = "allocation failure"
)

// Error constructors

// NewError creates a new structured error
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{
		Op:   op,
		Port: -1,
		Code: code,
		Msg:  msg,
	}
}

// NewPortError creates a new error carrying the device port
func NewPortError(op string, port int, code ErrorCode, msg string) *Error {
	return &Error{
		Op:   op,
		Port: port,
		Code: code,
		Msg:  msg,
	}
}

// WrapError wraps an existing error with trim-pipeline context
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}

	// If it's already a structured error, just update the operation
	if te, ok := inner.(*Error); ok {
		return &Error{
			Op:    op,
			Port:  te.Port,
			Code:  te.Code,
			Errno: te.Errno,
			Msg:   te.Msg,
			Inner: te.Inner,
		}
	}

	// Map syscall errors to trim error codes
	var errno syscall.Errno
	if errors.As(inner, &errno) {
		return &Error{
			Op:    op,
			Port:  -1,
			Code:  mapErrnoToCode(errno),
			Errno: errno,
			Msg:   errno.Error(),
			Inner: inner,
		}
	}

	return &Error{
		Op:    op,
		Port:  -1,
		Code:  ErrCodeTransportFailure,
		Msg:   inner.Error(),
		Inner: inner,
	}
}

// mapErrnoToCode maps syscall errno to trim error codes
func mapErrnoToCode(errno syscall.Errno) ErrorCode {
	switch errno {
	case syscall.ENOENT, syscall.ENODEV, syscall.ENXIO:
		return ErrCodeDeviceNotFound
	case syscall.EINVAL, syscall.E2BIG:
		return ErrCodeInvalidParameters
	case syscall.ENOSYS, syscall.EOPNOTSUPP:
		return ErrCodeNotSupported
	case syscall.ENOMEM, syscall.ENOSPC:
		return ErrCodeAllocationFailure
	default:
		// Timeouts and every other command round-trip failure count as
		// transport failures.
		return ErrCodeTransportFailure
	}
}

// IsCode checks if an error matches a specific error code
func IsCode(err error, code ErrorCode) bool {
	var trimErr *Error
	if errors.As(err, &trimErr) {
		return trimErr.Code == code
	}
	return false
}

// IsErrno checks if an error matches a specific errno
func IsErrno(err error, errno syscall.Errno) bool {
	var trimErr *Error
	if errors.As(err, &trimErr) {
		return trimErr.Errno == errno
	}
	return false
}

// IsUnsupported reports whether err means the device cannot TRIM. Callers
// typically fall back to a different erase strategy on this outcome.
func IsUnsupported(err error) bool {
	return IsCode(err, ErrCodeNotSupported)
}
