package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	ErrState
)

func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrConflict:
		return "conflict"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrState:
		return "state"
	default:
		return "internal"
	}
}

// Machine-readable codes carried by conflict and state errors
const (
	CodeNoDraft             = "no_draft"
	CodeNoPublishedSchedule = "no_published_schedule"
	CodeScoreExists         = "score_exists"
	CodeNotEligible         = "not_eligible"
	CodeScheduleBusy        = "schedule_busy"
	CodeVersionConflict     = "version_conflict"
	CodeInvalidParticipant  = "invalid_participant"
	CodeRequestCanceled     = "request_canceled"
)

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Code    string // optional machine-readable code, e.g. "score_exists"
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind and code, so sentinel-style comparisons work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code != "" && t.Code == e.Code
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// ConflictCode creates a conflict error carrying a code
func ConflictCode(code, msg string) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: msg}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// State creates an error for an operation attempted in the wrong lifecycle state
func State(code, msg string) *Error {
	return &Error{Kind: ErrState, Code: code, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// WrapCode wraps an error with a kind and a machine-readable code
func WrapCode(err error, kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or ErrInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// CodeOf returns the code of the first *Error in err's chain that has one.
func CodeOf(err error) string {
	for err != nil {
		if appErr, ok := err.(*Error); ok && appErr.Code != "" {
			return appErr.Code
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}
