package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/frbgen/internal/ir"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestFile creates a small ApiFile with one function and one struct.
func createTestFile(funcName string) *ir.ApiFile {
	file := ir.NewApiFile()
	file.StructPool["Point"] = ir.ApiStruct{
		Name: "Point",
		Fields: []ir.ApiField{
			{Name: "x", Type: ir.Primitive{Kind: ir.F64}},
			{Name: "next", Type: ir.Boxed{Inner: ir.StructRef{Name: "Point"}, ExistInRealAPI: true}},
		},
		IsFieldsNamed: true,
	}
	file.Funcs = append(file.Funcs, ir.ApiFunc{
		Name:   funcName,
		Inputs: []ir.ApiField{{Name: "p", Type: ir.StructRef{Name: "Point"}}},
		Output: ir.GeneralList{Inner: ir.StructRef{Name: "Point"}},
	})
	return file
}

// createTestInput creates a RunInput for the given source text.
func createTestInput(path, src, funcName string) RunInput {
	return RunInput{
		SourcePath: path,
		SourceHash: ir.SourceHash([]byte(src)),
		File:       createTestFile(funcName),
	}
}
