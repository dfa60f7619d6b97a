package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/frbgen/internal/ir"
)

func errorCodes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateFile_ResolverOutput(t *testing.T) {
	file := mustResolve(t, `
pub struct Point { pub x: f64, pub y: f64 }
pub struct Node { pub next: Box<Node>, pub at: Point }
pub fn f(n: Node, ps: Vec<Point>) -> Result<Vec<Vec<u8>>> { todo!() }
`)

	assert.Empty(t, ValidateFile(file))
}

func TestValidateFile_Nil(t *testing.T) {
	errs := ValidateFile(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNilFile, errs[0].Code)
}

func TestValidateFile_DanglingRef(t *testing.T) {
	file := ir.NewApiFile()
	file.Funcs = append(file.Funcs, ir.ApiFunc{
		Name:   "f",
		Inputs: []ir.ApiField{field("p", ir.GeneralList{Inner: ir.StructRef{Name: "Point"}})},
		Output: ir.Primitive{Kind: ir.Unit},
	})

	errs := ValidateFile(file)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDanglingStructRef, errs[0].Code)
	assert.Equal(t, "funcs[0].inputs[0].ty.inner", errs[0].Field)
}

func TestValidateFile_PoolKeyMismatch(t *testing.T) {
	file := ir.NewApiFile()
	file.StructPool["Point"] = namedStruct("Pt", field("x", ir.Primitive{Kind: ir.I32}))

	errs := ValidateFile(file)
	assert.Equal(t, []string{ErrPoolKeyMismatch}, errorCodes(errs))
}

func TestValidateFile_CollectsAllErrors(t *testing.T) {
	file := ir.NewApiFile()
	file.Funcs = append(file.Funcs, ir.ApiFunc{
		Name: "",
		Inputs: []ir.ApiField{
			field("a", ir.Primitive{Kind: ir.I32}),
			field("a", ir.Primitive{Kind: "i128"}),
		},
		Output: nil,
	})
	file.StructPool["S"] = namedStruct("S", field("d", ir.Delegate{Kind: "Path"}))

	errs := ValidateFile(file)
	assert.ElementsMatch(t, []string{
		ErrEmptyName,
		ErrDuplicateFieldName,
		ErrInvalidKind,
		ErrNilType,
		ErrInvalidKind,
	}, errorCodes(errs))
}

func TestValidationError_Format(t *testing.T) {
	err := ValidationError{Field: "funcs[0].output", Code: ErrNilType, Message: "type is missing"}
	assert.Equal(t, "[E104] funcs[0].output: type is missing", err.Error())
}
