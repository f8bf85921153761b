// Package apperrors defines the error taxonomy shared by the store, the
// integrity checks and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

type Code string

const (
	CodeEmptyIngredientList       Code = "EmptyIngredientList"
	CodeDuplicateIngredient       Code = "DuplicateIngredient"
	CodeEmptyTagList              Code = "EmptyTagList"
	CodeDuplicateTag              Code = "DuplicateTag"
	CodeInvalidAmount             Code = "InvalidAmount"
	CodeInvalidCookingTime        Code = "InvalidCookingTime"
	CodeInvalidField              Code = "InvalidField"
	CodeUnknownIngredient         Code = "UnknownIngredient"
	CodeUnknownTag                Code = "UnknownTag"
	CodeAlreadyExists             Code = "AlreadyExists"
	CodeNotFound                  Code = "NotFound"
	CodeSelfFollowForbidden       Code = "SelfFollowForbidden"
	CodeNotAuthor                 Code = "NotAuthor"
	CodeShortLinkGenerationFailed Code = "ShortLinkGenerationFailed"
)

// Error is a structured domain error. Field names the offending input field
// when there is one.
type Error struct {
	Kind    Kind
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so sentinels below work with
// errors.Is regardless of field or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrEmptyIngredientList = &Error{Kind: KindValidation, Code: CodeEmptyIngredientList}
	ErrDuplicateIngredient = &Error{Kind: KindValidation, Code: CodeDuplicateIngredient}
	ErrEmptyTagList        = &Error{Kind: KindValidation, Code: CodeEmptyTagList}
	ErrDuplicateTag        = &Error{Kind: KindValidation, Code: CodeDuplicateTag}
	ErrInvalidAmount       = &Error{Kind: KindValidation, Code: CodeInvalidAmount}
	ErrInvalidCookingTime  = &Error{Kind: KindValidation, Code: CodeInvalidCookingTime}
	ErrInvalidField        = &Error{Kind: KindValidation, Code: CodeInvalidField}
	ErrUnknownIngredient   = &Error{Kind: KindValidation, Code: CodeUnknownIngredient}
	ErrUnknownTag          = &Error{Kind: KindValidation, Code: CodeUnknownTag}
	ErrAlreadyExists       = &Error{Kind: KindConflict, Code: CodeAlreadyExists}
	ErrNotFound            = &Error{Kind: KindNotFound, Code: CodeNotFound}
	ErrSelfFollowForbidden = &Error{Kind: KindForbidden, Code: CodeSelfFollowForbidden}
	ErrNotAuthor           = &Error{Kind: KindForbidden, Code: CodeNotAuthor}

	ErrShortLinkGenerationFailed = &Error{Kind: KindInternal, Code: CodeShortLinkGenerationFailed}
)

func Validation(code Code, field, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field, Message: message}
}

func AlreadyExists(field, message string) *Error {
	return &Error{Kind: KindConflict, Code: CodeAlreadyExists, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

func Forbidden(code Code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf reports the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
