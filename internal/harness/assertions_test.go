package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/ir"
)

func sampleResult() *Result {
	file := ir.NewApiFile()
	file.StructPool["Point"] = ir.ApiStruct{
		Name: "Point",
		Fields: []ir.ApiField{
			{Name: "x", Type: ir.Primitive{Kind: ir.F64}},
			{Name: "y", Type: ir.Primitive{Kind: ir.F64}},
		},
		IsFieldsNamed: true,
	}
	file.Funcs = append(file.Funcs, ir.ApiFunc{
		Name:   "scale",
		Inputs: []ir.ApiField{{Name: "p", Type: ir.StructRef{Name: "Point"}}, {Name: "k", Type: ir.Primitive{Kind: ir.F64}}},
		Output: ir.GeneralList{Inner: ir.StructRef{Name: "Point"}},
	})

	result := NewResult()
	result.File = file
	result.Cycles = []compiler.CycleWarning{
		{Path: []string{"Node", "Edge", "Node"}, Level: "info"},
	}
	return result
}

func boolPtr(b bool) *bool { return &b }

func TestFormatSignature(t *testing.T) {
	fn := sampleResult().File.Funcs[0]
	assert.Equal(t, "scale(p: Point, k: f64) -> Vec<Point>", FormatSignature(fn))
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	assertions := []Assertion{
		{Type: AssertFuncSignature, Func: "scale", Inputs: []string{"p: Point", "k: f64"}, Output: "Vec<Point>"},
		{Type: AssertStructFields, Struct: "Point", Fields: []string{"x: f64", "y: f64"}, Named: boolPtr(true)},
		{Type: AssertCycle, Structs: []string{"Edge", "Node"}, Level: "info"},
	}

	assert.Empty(t, EvaluateAssertions(sampleResult(), assertions))
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{
			name:      "wrong output",
			assertion: Assertion{Type: AssertFuncSignature, Func: "scale", Inputs: []string{"p: Point", "k: f64"}, Output: "Point"},
			want:      "Actual: scale(p: Point, k: f64) -> Vec<Point>",
		},
		{
			name:      "missing function",
			assertion: Assertion{Type: AssertFuncSignature, Func: "rotate", Output: "()"},
			want:      "not found",
		},
		{
			name:      "wrong field order",
			assertion: Assertion{Type: AssertStructFields, Struct: "Point", Fields: []string{"y: f64", "x: f64"}},
			want:      "Point { y: f64, x: f64 }",
		},
		{
			name:      "wrong layout",
			assertion: Assertion{Type: AssertStructFields, Struct: "Point", Named: boolPtr(false)},
			want:      "is_fields_named=true",
		},
		{
			name:      "missing struct",
			assertion: Assertion{Type: AssertStructFields, Struct: "Line"},
			want:      "struct Line in pool",
		},
		{
			name:      "wrong cycle level",
			assertion: Assertion{Type: AssertCycle, Structs: []string{"Node", "Edge"}, Level: "warning"},
			want:      "level info",
		},
		{
			name:      "missing cycle",
			assertion: Assertion{Type: AssertCycle, Structs: []string{"Point"}},
			want:      "reported cycles: [Edge,Node]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateExpect(t *testing.T) {
	result := sampleResult()

	assert.Empty(t, EvaluateExpect(result, Expect{Funcs: []string{"scale"}, Structs: []string{"Point"}}))
	assert.Len(t, EvaluateExpect(result, Expect{Structs: []string{}}), 1)
	assert.Len(t, EvaluateExpect(result, Expect{Error: "UnrecognizedType"}), 1)

	failed := NewResult()
	failed.ErrorKind = "UnrecognizedType"
	failed.ErrorSubject = "Widget"
	failed.ErrorMessage = "api.rs:1:10: UnrecognizedType: cannot resolve type \"Widget\""

	assert.Empty(t, EvaluateExpect(failed, Expect{Error: "UnrecognizedType", ErrorSubject: "Widget"}))
	assert.Len(t, EvaluateExpect(failed, Expect{Error: "UnrecognizedType", ErrorSubject: "Gadget"}), 1)
	assert.Len(t, EvaluateExpect(failed, Expect{Funcs: []string{"f"}}), 1)
}

func TestNewSnapshot_Error(t *testing.T) {
	failed := NewResult()
	failed.ErrorKind = "UnsupportedReturnShape"
	failed.ErrorSubject = "bool"

	data, err := NewSnapshot("err", failed).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"cycles":[],"error":{"kind":"UnsupportedReturnShape","subject":"bool"},"scenario_name":"err"}`,
		string(data))
}
