package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/frbgen/internal/harness"
	"github.com/roach88/frbgen/internal/ir"
)

// printFile writes the functions and structs of an IR file, one per line.
func printFile(f *OutputFormatter, file *ir.ApiFile) {
	w := f.Writer

	if len(file.Funcs) > 0 {
		fmt.Fprintln(w, "Functions:")
		for _, fn := range file.Funcs {
			fmt.Fprintf(w, "  %s\n", harness.FormatSignature(fn))
		}
		fmt.Fprintln(w)
	}

	if len(file.StructPool) > 0 {
		fmt.Fprintln(w, "Structs:")
		for _, name := range file.StructNames() {
			fmt.Fprintf(w, "  %s\n", formatStruct(file.StructPool[name]))
		}
		fmt.Fprintln(w)
	}
}

// formatStruct renders "Point { x: f64, y: f64 }" or "Pair(i32, i32)".
func formatStruct(s ir.ApiStruct) string {
	if !s.IsFieldsNamed {
		types := make([]string, 0, len(s.Fields))
		for _, field := range s.Fields {
			types = append(types, field.Type.String())
		}
		return fmt.Sprintf("%s(%s)", s.Name, strings.Join(types, ", "))
	}

	fields := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		fields = append(fields, harness.FormatField(field))
	}
	return fmt.Sprintf("%s { %s }", s.Name, strings.Join(fields, ", "))
}
