package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the canonical protocol error code. Codes are stable across
// transports; clients match on the number, not the message.
type ErrorCode int

const (
	CodeGeneral              ErrorCode = 1000
	CodeWindowNotFound       ErrorCode = 1001
	CodeOperationTimeout     ErrorCode = 1002
	CodeInvalidParameters    ErrorCode = 1003
	CodeInvalidColor         ErrorCode = 1004
	CodeInvalidTool          ErrorCode = 1005
	CodeInvalidShape         ErrorCode = 1006
	CodeActivationFailed     ErrorCode = 1007
	CodeUnsupportedUIVersion ErrorCode = 1008
	CodeFileNotFound         ErrorCode = 1009
	CodePermissionDenied     ErrorCode = 1010
	CodeInvalidImageFormat   ErrorCode = 1011
	CodeTextInputFailed      ErrorCode = 1012
	CodeFontSelectionFailed  ErrorCode = 1013
	CodeTransformationFailed ErrorCode = 1014
	CodeCanvasCreationFailed ErrorCode = 1015
)

// Error is a protocol-level failure with a canonical code. Internal causes are
// wrapped so call sites can still errors.Is/As on them.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on code so errors.Is(err, &Error{Code: CodeWindowNotFound}) works
// without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a protocol error with the given code
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a canonical code to an underlying cause
func WrapError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// ErrWindowNotFound reports that the target window could not be located or launched
func ErrWindowNotFound(format string, args ...any) *Error {
	return NewError(CodeWindowNotFound, format, args...)
}

// ErrTimeout reports a bounded wait that expired
func ErrTimeout(format string, args ...any) *Error {
	return NewError(CodeOperationTimeout, format, args...)
}

// ErrInvalidParameters reports request parameters that failed validation
func ErrInvalidParameters(format string, args ...any) *Error {
	return NewError(CodeInvalidParameters, format, args...)
}

// ErrInvalidColor reports a color string that is not #RRGGBB
func ErrInvalidColor(value string) *Error {
	return NewError(CodeInvalidColor, "invalid color format: %q (expected #RRGGBB)", value)
}

// ErrInvalidTool reports a tool name outside the supported set
func ErrInvalidTool(value string) *Error {
	return NewError(CodeInvalidTool, "invalid tool: %q", value)
}

// ErrInvalidShape reports a shape type outside the supported set
func ErrInvalidShape(value string) *Error {
	return NewError(CodeInvalidShape, "invalid shape type: %q", value)
}

// ErrActivationFailed reports that foreground activation never verified
func ErrActivationFailed(format string, args ...any) *Error {
	return NewError(CodeActivationFailed, format, args...)
}

// CodeOf extracts the canonical code from any error. Unclassified errors map
// to CodeGeneral at the protocol boundary.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeGeneral
}

// MessageOf extracts the protocol message from any error
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
