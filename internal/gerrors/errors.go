package gerrors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeParse       ErrorCode = "PARSE_ERROR"
	CodeAssembly    ErrorCode = "ASSEMBLY_ERROR"
	CodeVocabulary  ErrorCode = "UNKNOWN_VOCABULARY"
	CodeTypeLookup  ErrorCode = "TYPE_LOOKUP"
	CodeRoundTrip   ErrorCode = "ROUNDTRIP_MISMATCH"
	CodeConfig      ErrorCode = "CONFIG_ERROR"
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
	CodeUnsupported ErrorCode = "NOT_SUPPORTED"
)

// Position locates a diagnostic in one of the registry files.
// Line and column are 1-based; a zero Position means "no position".
type Position struct {
	Line   int
	Column int
}

func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type RegistryError struct {
	Code    ErrorCode
	Message string
	Pos     Position
	Err     error
	Context map[string]interface{}
}

const (
	CtxRegistry = "registry"
	CtxFunction = "function"
	CtxCategory = "category"
	CtxProperty = "property"
	CtxName     = "name"
)

func (e *RegistryError) WithContext(key string, value interface{}) *RegistryError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *RegistryError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if !e.Pos.IsZero() {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, e.Pos, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &RegistryError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &RegistryError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// At builds a position-tagged error, the form every grammar failure takes.
func At(code ErrorCode, pos Position, format string, args ...interface{}) error {
	return &RegistryError{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &RegistryError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value interface{}) error {
	var re *RegistryError
	if errors.As(err, &re) {
		re.WithContext(key, value)
		return re
	}
	return &RegistryError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// PositionOf extracts the position from a registry error chain, if any.
func PositionOf(err error) (Position, bool) {
	var re *RegistryError
	if errors.As(err, &re) && !re.Pos.IsZero() {
		return re.Pos, true
	}
	return Position{}, false
}
