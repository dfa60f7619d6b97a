package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/frbgen/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	File     *ir.ApiFile // Resolved file for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.File != nil {
		fmt.Fprintf(&buf, "\nResolved functions:\n")
		for i, fn := range e.File.Funcs {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, FormatSignature(fn))
		}
	}

	return buf.String()
}

// FormatField renders a field as "name: Type".
func FormatField(f ir.ApiField) string {
	ty := "<nil>"
	if f.Type != nil {
		ty = f.Type.String()
	}
	return f.Name + ": " + ty
}

// FormatSignature renders a function as "name(a: T, b: U) -> Output".
func FormatSignature(fn ir.ApiFunc) string {
	inputs := make([]string, 0, len(fn.Inputs))
	for _, in := range fn.Inputs {
		inputs = append(inputs, FormatField(in))
	}
	out := "<nil>"
	if fn.Output != nil {
		out = fn.Output.String()
	}
	return fmt.Sprintf("%s(%s) -> %s", fn.Name, strings.Join(inputs, ", "), out)
}

func formatFields(fields []ir.ApiField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, FormatField(f))
	}
	return out
}

// EvaluateExpect checks the top-level outcome of a scenario.
// Returns error messages for every mismatch.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string

	if expect.Error != "" {
		if result.ErrorKind != expect.Error {
			actual := "resolved successfully"
			if result.ErrorMessage != "" {
				actual = result.ErrorMessage
			}
			errs = append(errs, (&AssertionError{
				Type:     "expect.error",
				Expected: expect.Error,
				Actual:   actual,
				File:     result.File,
			}).Error())
		} else if expect.ErrorSubject != "" && result.ErrorSubject != expect.ErrorSubject {
			errs = append(errs, (&AssertionError{
				Type:     "expect.error_subject",
				Expected: expect.ErrorSubject,
				Actual:   result.ErrorSubject,
			}).Error())
		}
		return errs
	}

	if result.File == nil {
		return append(errs, (&AssertionError{
			Type:     "expect",
			Expected: "source resolves",
			Actual:   result.ErrorMessage,
		}).Error())
	}

	if expect.Funcs != nil {
		actual := make([]string, 0, len(result.File.Funcs))
		for _, fn := range result.File.Funcs {
			actual = append(actual, fn.Name)
		}
		if !equalStrings(expect.Funcs, actual) {
			errs = append(errs, (&AssertionError{
				Type:     "expect.funcs",
				Expected: fmt.Sprintf("%v", expect.Funcs),
				Actual:   fmt.Sprintf("%v", actual),
				File:     result.File,
			}).Error())
		}
	}

	if expect.Structs != nil {
		want := append([]string(nil), expect.Structs...)
		sort.Strings(want)
		actual := result.File.StructNames()
		if !equalStrings(want, actual) {
			errs = append(errs, (&AssertionError{
				Type:     "expect.structs",
				Expected: fmt.Sprintf("%v", want),
				Actual:   fmt.Sprintf("%v", actual),
			}).Error())
		}
	}

	return errs
}

// EvaluateAssertions evaluates all assertions against a result.
// Returns a list of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertFuncSignature:
			err = assertFuncSignature(result.File, assertion)
		case AssertStructFields:
			err = assertStructFields(result.File, assertion)
		case AssertCycle:
			err = assertCycle(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err.Error()))
		}
	}

	return errs
}

// assertFuncSignature checks a function's inputs (exact, in order) and output.
func assertFuncSignature(file *ir.ApiFile, assertion Assertion) error {
	if file == nil {
		return fmt.Errorf("func_signature: no resolved file")
	}

	fn, ok := file.Func(assertion.Func)
	if !ok {
		return &AssertionError{
			Type:     AssertFuncSignature,
			Expected: fmt.Sprintf("function %s", assertion.Func),
			Actual:   "not found",
			File:     file,
		}
	}

	want := append([]string{}, assertion.Inputs...)
	actual := formatFields(fn.Inputs)
	if !equalStrings(want, actual) || fn.Output.String() != assertion.Output {
		return &AssertionError{
			Type:     AssertFuncSignature,
			Expected: fmt.Sprintf("%s(%s) -> %s", assertion.Func, strings.Join(want, ", "), assertion.Output),
			Actual:   FormatSignature(fn),
			File:     file,
		}
	}

	return nil
}

// assertStructFields checks a struct's fields (exact, in order) and layout.
func assertStructFields(file *ir.ApiFile, assertion Assertion) error {
	if file == nil {
		return fmt.Errorf("struct_fields: no resolved file")
	}

	s, ok := file.Struct(ir.StructRef{Name: assertion.Struct})
	if !ok {
		return &AssertionError{
			Type:     AssertStructFields,
			Expected: fmt.Sprintf("struct %s in pool", assertion.Struct),
			Actual:   fmt.Sprintf("pool has %v", file.StructNames()),
		}
	}

	actual := formatFields(s.Fields)
	if assertion.Fields != nil && !equalStrings(assertion.Fields, actual) {
		return &AssertionError{
			Type:     AssertStructFields,
			Expected: fmt.Sprintf("%s { %s }", assertion.Struct, strings.Join(assertion.Fields, ", ")),
			Actual:   fmt.Sprintf("%s { %s }", s.Name, strings.Join(actual, ", ")),
		}
	}

	if assertion.Named != nil && *assertion.Named != s.IsFieldsNamed {
		return &AssertionError{
			Type:     AssertStructFields,
			Expected: fmt.Sprintf("%s is_fields_named=%t", assertion.Struct, *assertion.Named),
			Actual:   fmt.Sprintf("is_fields_named=%t", s.IsFieldsNamed),
		}
	}

	return nil
}

// assertCycle checks that exactly the given structs form a reported cycle.
func assertCycle(result *Result, assertion Assertion) error {
	want := append([]string(nil), assertion.Structs...)
	sort.Strings(want)

	var reported []string
	for _, c := range result.Cycles {
		members := cycleMembers(c.Path)
		if equalStrings(want, members) {
			if assertion.Level != "" && c.Level != assertion.Level {
				return &AssertionError{
					Type:     AssertCycle,
					Expected: fmt.Sprintf("cycle %v at level %s", want, assertion.Level),
					Actual:   fmt.Sprintf("level %s", c.Level),
				}
			}
			return nil
		}
		reported = append(reported, strings.Join(members, ","))
	}

	return &AssertionError{
		Type:     AssertCycle,
		Expected: fmt.Sprintf("cycle %v", want),
		Actual:   fmt.Sprintf("reported cycles: %v", reported),
	}
}

// cycleMembers returns the distinct, sorted names on a cycle path.
func cycleMembers(path []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range path {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
