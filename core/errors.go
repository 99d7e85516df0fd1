package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed
	ECONNECTION int = 124 // remote resource not connected
	EINTERNAL   int = 125 // internal error
	ENOTIMPL    int = 126 // capability not implemented
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission-error"
	case EINTERNAL:
		return "internal error"
	case ENOTIMPL:
		return "not implemented"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting NOERROR is returned.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints an error to stderr, preferring the user message of
// application errors.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// --- Layout errors ---------------------------------------------------------

// Kind classifies errors raised by the layout pipeline.
type Kind int

// Kinds of layout errors.
const (
	NoKind Kind = iota
	BidiError
	ShapingError
	FontNotFound
	InvalidText
	HyphenationError
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case BidiError:
		return "BidiError"
	case ShapingError:
		return "ShapingError"
	case FontNotFound:
		return "FontNotFound"
	case InvalidText:
		return "InvalidText"
	case HyphenationError:
		return "HyphenationError"
	case NotImplemented:
		return "NotImplemented"
	}
	return "NoKind"
}

// Sentinel errors, one per kind. Errors created by LayoutError match
// these with errors.Is.
var (
	ErrBidi           = errors.New("bidi resolution failed")
	ErrShaping        = errors.New("shaping failed")
	ErrFontNotFound   = errors.New("font not found")
	ErrInvalidText    = errors.New("invalid text")
	ErrHyphenation    = errors.New("hyphenation failed")
	ErrNotImplemented = errors.New("not implemented")
)

func (k Kind) sentinel() error {
	switch k {
	case BidiError:
		return ErrBidi
	case ShapingError:
		return ErrShaping
	case FontNotFound:
		return ErrFontNotFound
	case InvalidText:
		return ErrInvalidText
	case HyphenationError:
		return ErrHyphenation
	case NotImplemented:
		return ErrNotImplemented
	}
	return nil
}

func (k Kind) code() int {
	switch k {
	case FontNotFound:
		return EMISSING
	case InvalidText:
		return EINVALID
	case NotImplemented:
		return ENOTIMPL
	}
	return EINTERNAL
}

type layoutError struct {
	coreError
	kind  Kind
	cause error
}

func (e layoutError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %s: %v", e.code, e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("[%d] %s: %s", e.code, e.kind, e.msg)
}

// Is matches the sentinel error of the error's kind.
func (e layoutError) Is(target error) bool {
	return target != nil && target == e.kind.sentinel()
}

// Unwrap returns the underlying cause, if any.
func (e layoutError) Unwrap() error {
	return e.cause
}

// LayoutError creates an application error of a given kind. cause may be nil.
func LayoutError(kind Kind, cause error, format string, v ...interface{}) error {
	s := kind.sentinel()
	if s == nil {
		s = errors.New(errorText(EINTERNAL))
	}
	return layoutError{
		coreError: coreError{s, kind.code(), fmt.Sprintf(format, v...)},
		kind:      kind,
		cause:     cause,
	}
}

// KindOf returns the layout error kind of err, or NoKind.
func KindOf(err error) Kind {
	var le layoutError
	if errors.As(err, &le) {
		return le.kind
	}
	return NoKind
}
