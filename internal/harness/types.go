package harness

import (
	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the expect clause and all assertions match.
	Pass bool `json:"pass"`

	// File is the resolved IR after a store round trip. Nil when resolution
	// failed.
	File *ir.ApiFile `json:"ir,omitempty"`

	// IRHash is the content hash of File.
	IRHash string `json:"ir_hash,omitempty"`

	// ErrorKind and ErrorSubject describe a compile error, if any.
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorSubject string `json:"error_subject,omitempty"`

	// ErrorMessage is the full text of any resolution failure, including
	// front-end failures that have no kind.
	ErrorMessage string `json:"error_message,omitempty"`

	// Cycles are the recursive struct groups found in File.
	Cycles []compiler.CycleWarning `json:"cycles,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cycles: []compiler.CycleWarning{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
