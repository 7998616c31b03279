// Package errs provides the unified error type used across all of ezschema.
//
// Every subsystem (compiler, database, migration, filestore, …) wraps its
// native errors into *errs.Error before returning them to callers. Callers use
// the Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In the compiler, report a model whose value is not a column mapping:
//	return errs.New(errs.ErrKindShapeMismatch, "could not understand models while parsing model: Book")
//
//	// In a caller, check error kind:
//	if errs.IsShapeMismatch(err) {
//	    ...
//	}
package errs

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // missing document, object, or bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or storage operation error
	ErrKindInvalidInput             // bad arguments or unsupported column type
	ErrKindPermissionDenied         // access denied / auth failure
	ErrKindParseFailed              // the model document is not valid structured text
	ErrKindShapeMismatch            // a model's value is not a column mapping
	ErrKindMigrationFailed          // the migration engine rejected the spec
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindParseFailed:
		return "parse_failed"
	case ErrKindShapeMismatch:
		return "shape_mismatch"
	case ErrKindMigrationFailed:
		return "migration_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all ezschema subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging

	frame runtime.Frame
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Frame returns "file:line function" for the place the error was created,
// or "" when it is unknown.
func (e *Error) Frame() string {
	if e.frame.PC == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d %s", e.frame.File, e.frame.Line, e.frame.Function)
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, frame: caller()}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), frame: caller()}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause, frame: caller()}
}

// caller skips runtime.Callers, caller and the constructor itself.
func caller() runtime.Frame {
	pcs := make([]uintptr, 1)
	if runtime.Callers(3, pcs) == 0 {
		return runtime.Frame{}
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	return frame
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsParseFailed reports whether err came from the structured-text parser.
func IsParseFailed(err error) bool {
	return KindOf(err) == ErrKindParseFailed
}

// IsShapeMismatch reports whether err names a model whose value is not a
// column mapping.
func IsShapeMismatch(err error) bool {
	return KindOf(err) == ErrKindShapeMismatch
}

// IsMigrationFailed reports whether err was raised while reconciling the
// live schema.
func IsMigrationFailed(err error) bool {
	return KindOf(err) == ErrKindMigrationFailed
}

// KindOf extracts the ErrKind of the outermost *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// FrameOf returns the creation frame of the outermost *Error in the chain.
func FrameOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Frame()
	}
	return ""
}
