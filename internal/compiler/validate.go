package compiler

import (
	"fmt"

	"github.com/roach88/frbgen/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrNilFile            = "E100" // no file to validate
	ErrPoolKeyMismatch    = "E101" // pool key differs from struct name
	ErrDanglingStructRef  = "E102" // StructRef names a struct missing from the pool
	ErrDuplicateFieldName = "E103" // duplicate parameter or field name
	ErrNilType            = "E104" // missing type
	ErrInvalidKind        = "E105" // unknown primitive or delegate kind
	ErrEmptyName          = "E106" // function, struct or field without a name
)

// ValidationError represents one broken invariant in an ApiFile.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateFile checks a finished ApiFile, typically one reloaded from the
// store. Returns all errors found (does not fail-fast).
func ValidateFile(file *ir.ApiFile) []ValidationError {
	if file == nil {
		return []ValidationError{{
			Field:   "file",
			Message: "file is nil",
			Code:    ErrNilFile,
		}}
	}

	v := &fileValidator{file: file}

	for i, fn := range file.Funcs {
		path := fmt.Sprintf("funcs[%d]", i)
		if fn.Name == "" {
			v.add(path+".name", ErrEmptyName, "function name is empty")
		}
		v.checkFields(path+".inputs", fn.Inputs)
		v.checkType(path+".output", fn.Output)
	}

	for _, key := range file.StructNames() {
		s := file.StructPool[key]
		path := fmt.Sprintf("struct_pool[%s]", key)
		if s.Name != key {
			v.add(path+".name", ErrPoolKeyMismatch,
				fmt.Sprintf("struct name %q does not match pool key %q", s.Name, key))
		}
		v.checkFields(path+".fields", s.Fields)
	}

	return v.errs
}

type fileValidator struct {
	file *ir.ApiFile
	errs []ValidationError
}

func (v *fileValidator) add(field, code, message string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: message, Code: code})
}

func (v *fileValidator) checkFields(path string, fields []ir.ApiField) {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		fieldPath := fmt.Sprintf("%s[%d]", path, i)
		if f.Name == "" {
			v.add(fieldPath+".name", ErrEmptyName, "name is empty")
		} else if seen[f.Name] {
			v.add(fieldPath+".name", ErrDuplicateFieldName, fmt.Sprintf("duplicate name: %q", f.Name))
		}
		seen[f.Name] = true
		v.checkType(fieldPath+".ty", f.Type)
	}
}

func (v *fileValidator) checkType(path string, ty ir.ApiType) {
	switch t := ty.(type) {
	case nil:
		v.add(path, ErrNilType, "type is missing")
	case ir.Primitive:
		if !t.Kind.Valid() {
			v.add(path, ErrInvalidKind, fmt.Sprintf("unknown primitive %q", t.Kind))
		}
	case ir.Delegate:
		if !t.Kind.Valid() {
			v.add(path, ErrInvalidKind, fmt.Sprintf("unknown delegate %q", t.Kind))
		}
	case ir.PrimitiveList:
		if !t.Primitive.Valid() {
			v.add(path, ErrInvalidKind, fmt.Sprintf("unknown primitive %q", t.Primitive))
		}
	case ir.GeneralList:
		v.checkType(path+".inner", t.Inner)
	case ir.Boxed:
		v.checkType(path+".inner", t.Inner)
	case ir.StructRef:
		if _, ok := v.file.StructPool[t.Name]; !ok {
			v.add(path, ErrDanglingStructRef, fmt.Sprintf("struct %q is not in the pool", t.Name))
		}
	}
}
