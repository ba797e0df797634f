package edit

import (
	"context"
	"errors"
	"fmt"
)

// Error classes. Every *Error unwraps to exactly one of these, so callers can
// branch with errors.Is.
var (
	// ErrUnsupported means the operation kind is not implemented or the
	// classifier produced a token the engine does not know.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrInvalidImage means the buffer is missing, zero-sized or corrupt.
	ErrInvalidImage = errors.New("invalid image")
	// ErrBusy means a transform is already in flight on the same session.
	ErrBusy = errors.New("edit already in progress")
	// ErrResourceExhausted means a spatial effect could not run; the
	// accompanying Result carries the original image unchanged.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Error is the error type returned by the engine and the session.
type Error struct {
	Class   error  // one of the Err* class sentinels
	Op      Kind   // operation being applied, KindUnknown if not applicable
	Message string // detail for logs
	Err     error  // underlying cause, may be nil
}

func newError(class error, op Kind, format string, args ...any) *Error {
	return &Error{Class: class, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NewBusyError reports that op was rejected because another edit is running.
func NewBusyError(op Kind) *Error {
	return newError(ErrBusy, op, "another edit is still being applied")
}

// NewInvalidImageError reports an unusable image for op.
func NewInvalidImageError(op Kind, message string) *Error {
	return &Error{Class: ErrInvalidImage, Op: op, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Class.Error()
	if e.Op != KindUnknown {
		msg = e.Op.String() + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the class sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

// UserMessage returns a short message suitable for a toast or status line.
func (e *Error) UserMessage() string {
	return UserMessage(e)
}

// UserMessage maps any error returned by this package (or the session) to a
// short user-facing message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "Sorry, I can't make that edit. Could you rephrase it?"
	case errors.Is(err, ErrInvalidImage):
		return "That image can't be edited. Try loading another one."
	case errors.Is(err, ErrBusy):
		return "Still working on the previous edit. Try again in a moment."
	case errors.Is(err, ErrResourceExhausted):
		return "Couldn't apply that effect, so the image was left unchanged."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The edit was cancelled. The image was left unchanged."
	default:
		return "Something went wrong while editing. The image was left unchanged."
	}
}

// StatusLabel maps err to a low-cardinality label for metrics.
func StatusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
