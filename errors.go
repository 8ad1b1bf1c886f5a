package tracedump

import (
	"errors"
	"fmt"
	"syscall"
)

// Error represents a structured tracedump error with context and errno
// mapping (spec.md §7).
type Error struct {
	Op     string    // Operation that failed (e.g. "FLUSH_TICK", "SCAN")
	RingID uint32    // Ring ID (0 if not applicable)
	Code   ErrorCode // High-level error category
	Errno  syscall.Errno
	Msg    string
	Inner  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.RingID != 0 {
		parts = append(parts, fmt.Sprintf("ring=%d", e.RingID))
	}
	if e.Errno != 0 {
		parts = append(parts, fmt.Sprintf("errno=%d", e.Errno))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("tracedump: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("tracedump: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support comparing by ErrorCode.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode represents high-level error categories (spec.md §7).
type ErrorCode string

const (
	ErrCodeInvalidHead      ErrorCode = "invalid head record"
	ErrCodeRecordLoss       ErrorCode = "record loss"
	ErrCodeTornTrace        ErrorCode = "torn trace during notification scan"
	ErrCodeCounterWrap      ErrorCode = "counter wrap"
	ErrCodeWriterFailure    ErrorCode = "writer failure"
	ErrCodeClockUnavailable ErrorCode = "clock unavailable"
)

// NewError creates a new structured error.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewRingError creates a new ring-specific structured error.
func NewRingError(op string, ringID uint32, code ErrorCode, msg string) *Error {
	return &Error{Op: op, RingID: ringID, Code: code, Msg: msg}
}

// WrapError wraps an existing error with tracedump context.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if te, ok := inner.(*Error); ok {
		return &Error{Op: op, RingID: te.RingID, Code: te.Code, Errno: te.Errno, Msg: te.Msg, Inner: te.Inner}
	}

	code := ErrCodeWriterFailure
	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, Code: code, Errno: errno, Msg: errno.Error(), Inner: inner}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode checks whether err matches a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
