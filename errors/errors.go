package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Error is a coded error carrying a human readable message, optional
// structured context for logging, and the underlying cause.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Message describes what was being attempted.
	Message string

	// Context holds structured key/value pairs (account ids, statuses, ...).
	// It must never contain secret values.
	Context map[string]interface{}

	// Cause is the wrapped error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(pairs, " "))
		b.WriteString("]")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
// This lets callers compare against a bare coded error:
//
//	errors.Is(err, &Error{Code: CodeNoRoot})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a coded error without a cause.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a coded error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapWithContext wraps err with a code, message and structured context.
// A nil err yields nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Context: maps.Clone(ctx),
		Cause:   err,
	}
}

// WithContext returns a copy of e with the given key/value added to its context.
func (e *Error) WithContext(key string, value interface{}) *Error {
	c := *e
	c.Context = maps.Clone(e.Context)
	if c.Context == nil {
		c.Context = make(map[string]interface{}, 1)
	}
	c.Context[key] = value
	return &c
}

// GetCode returns the code of the first *Error in err's chain, or CodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// IsFatal reports whether err must abort the run. Errors without a code are fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetCode(err).IsFatal()
}

// Is is an alias for the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is an alias for the standard library errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join is an alias for the standard library errors.Join.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
