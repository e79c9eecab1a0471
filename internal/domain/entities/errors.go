package entities

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure a job command can return.
//
// The codes are part of the public API contract (`{"success": false, "code": ...}`)
// and must stay stable.
type ErrorCode string

const (
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodePreconditionFailed  ErrorCode = "PRECONDITION_FAILED"
	CodeNotAuthorized       ErrorCode = "NOT_AUTHORIZED"
	CodeValidationError     ErrorCode = "VALIDATION_ERROR"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
)

// CommandError is the typed failure returned by domain rules and by the job use case.
type CommandError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Is matches any CommandError carrying the same code, so callers can write
// errors.Is(err, entities.ErrPreconditionFailed).
func (e *CommandError) Is(target error) bool {
	var t *CommandError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidTransition   = &CommandError{Code: CodeInvalidTransition, Message: "command not allowed in current phase"}
	ErrPreconditionFailed  = &CommandError{Code: CodePreconditionFailed, Message: "precondition failed"}
	ErrNotAuthorized       = &CommandError{Code: CodeNotAuthorized, Message: "actor not authorized for this job"}
	ErrValidation          = &CommandError{Code: CodeValidationError, Message: "invalid input"}
	ErrNotFound            = &CommandError{Code: CodeNotFound, Message: "not found"}
	ErrConcurrencyConflict = &CommandError{Code: CodeConcurrencyConflict, Message: "concurrent update, re-read state and retry"}
)

func NewInvalidTransition(format string, args ...any) error {
	return &CommandError{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NewPreconditionFailed(format string, args ...any) error {
	return &CommandError{Code: CodePreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

func NewNotAuthorized(format string, args ...any) error {
	return &CommandError{Code: CodeNotAuthorized, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return &CommandError{Code: CodeValidationError, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return &CommandError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConcurrencyConflict(format string, args ...any) error {
	return &CommandError{Code: CodeConcurrencyConflict, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first CommandError in err's chain, or "" when
// err is not a command failure (infrastructure error).
func CodeOf(err error) ErrorCode {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
