package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/config"
	"github.com/roach88/frbgen/internal/source"
	"github.com/roach88/frbgen/internal/store"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeReadFailed     = "E002" // Source or scenario read error
	ErrCodeNoScenarios    = "E003" // No scenario files found
	ErrCodeSourceRejected = "E004" // Front end rejected the file (size, encoding, syntax)
	ErrCodeNotFound       = "E005" // Path or run not found
	ErrCodeInvalidIR      = "E006" // Stored IR failed validation
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeConfig         = "E008" // Config file invalid
	ErrCodeStore          = "E009" // Database error

	// Resolution errors (E2xx)
	ErrCodeParamPattern = "E201" // Parameter is not a simple binding
	ErrCodeReturnShape  = "E202" // Return type is not Result<T>
	ErrCodeUnrecognized = "E203" // Type string matches no known shape
	ErrCodeFieldLayout  = "E204" // Struct is neither named nor tuple
)

var compileErrorCodes = map[compiler.ErrorKind]string{
	compiler.KindUnsupportedParamPattern: ErrCodeParamPattern,
	compiler.KindUnsupportedReturnShape:  ErrCodeReturnShape,
	compiler.KindUnrecognizedType:        ErrCodeUnrecognized,
	compiler.KindUnsupportedFieldLayout:  ErrCodeFieldLayout,
}

// ErrorCode maps an error to its stable CLI code.
func ErrorCode(err error) string {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		if code, ok := compileErrorCodes[compileErr.Kind]; ok {
			return code
		}
		return ErrCodeGeneric
	}

	var loadErr *config.LoadError
	switch {
	case errors.As(err, &loadErr):
		return ErrCodeConfig
	case errors.Is(err, source.ErrFileTooLarge),
		errors.Is(err, source.ErrInvalidContent),
		errors.Is(err, source.ErrSyntax):
		return ErrCodeSourceRejected
	case errors.Is(err, store.ErrRunNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	}
	return ErrCodeGeneric
}

// compileErrorDetails is the JSON detail payload for a resolution error.
type compileErrorDetails struct {
	Kind    string     `json:"kind" yaml:"kind"`
	Subject string     `json:"subject" yaml:"subject"`
	Pos     source.Pos `json:"pos" yaml:"pos"`
}

// errorDetails returns extra context for err, or nil.
func errorDetails(err error) any {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return compileErrorDetails{
			Kind:    string(compileErr.Kind),
			Subject: compileErr.Subject,
			Pos:     compileErr.Pos,
		}
	}
	return nil
}
