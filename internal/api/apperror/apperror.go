// Package apperror defines the error taxonomy shared by the service layer
// and the HTTP handlers. Services return *Error values; handlers map the
// kind to a status code in one place instead of inspecting error strings.
package apperror

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindExternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func External(err error, message string) *Error {
	return &Error{Kind: KindExternal, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// FromStore translates gorm sentinel errors (constraint violations caught
// at commit time, missing rows) into taxonomy errors. notFoundMsg and
// conflictMsg describe the entity for the caller-facing message.
func FromStore(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("%s", notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("%s", conflictMsg)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Conflict("%s", conflictMsg)
	default:
		return Internal(err)
	}
}
