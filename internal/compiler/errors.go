package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/frbgen/internal/source"
)

// ErrorKind identifies why a declaration could not be resolved.
type ErrorKind string

const (
	// KindUnsupportedParamPattern: a parameter is not a simple named binding.
	KindUnsupportedParamPattern ErrorKind = "UnsupportedParamPattern"

	// KindUnsupportedReturnShape: the return type is not Result<T>.
	KindUnsupportedReturnShape ErrorKind = "UnsupportedReturnShape"

	// KindUnrecognizedType: a type string matches no known shape.
	KindUnrecognizedType ErrorKind = "UnrecognizedType"

	// KindUnsupportedFieldLayout: a struct is neither named nor tuple.
	KindUnsupportedFieldLayout ErrorKind = "UnsupportedFieldLayout"
)

// Sentinel errors matched by CompileError via errors.Is.
var (
	ErrUnsupportedParamPattern = errors.New("unsupported parameter pattern")
	ErrUnsupportedReturnShape  = errors.New("unsupported return shape")
	ErrUnrecognizedType        = errors.New("unrecognized type")
	ErrUnsupportedFieldLayout  = errors.New("unsupported field layout")
)

var kindSentinels = map[ErrorKind]error{
	KindUnsupportedParamPattern: ErrUnsupportedParamPattern,
	KindUnsupportedReturnShape:  ErrUnsupportedReturnShape,
	KindUnrecognizedType:        ErrUnrecognizedType,
	KindUnsupportedFieldLayout:  ErrUnsupportedFieldLayout,
}

// CompileError is a fatal resolution failure. Any CompileError rejects the
// whole input file.
type CompileError struct {
	Kind    ErrorKind
	Subject string // the offending identifier or type string
	Message string
	Pos     source.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the sentinel for the error kind.
func (e *CompileError) Unwrap() error {
	return kindSentinels[e.Kind]
}

func newCompileError(kind ErrorKind, subject string, pos source.Pos, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}
