package ir

import "sort"

// ApiFile is the complete IR for one source file.
type ApiFile struct {
	Funcs      []ApiFunc            `json:"funcs" yaml:"funcs"`             // declaration order
	StructPool map[string]ApiStruct `json:"struct_pool" yaml:"struct_pool"` // keyed by struct name
}

// ApiFunc describes one public, outward-fallible function.
type ApiFunc struct {
	Name   string     `json:"name" yaml:"name"`
	Inputs []ApiField `json:"inputs" yaml:"inputs"`
	Output ApiType    `json:"output" yaml:"output"` // success type of the Result wrapper
}

// ApiField is a named, typed slot: a function parameter or a struct field.
type ApiField struct {
	Name string  `json:"name" yaml:"name"`
	Type ApiType `json:"ty" yaml:"ty"`
}

// ApiStruct is a record type registered in the struct pool.
type ApiStruct struct {
	Name          string     `json:"name" yaml:"name"`
	Fields        []ApiField `json:"fields" yaml:"fields"`
	IsFieldsNamed bool       `json:"is_fields_named" yaml:"is_fields_named"` // false for tuple structs (field0, field1, ...)
}

// NewApiFile returns an empty file with an initialised struct pool.
func NewApiFile() *ApiFile {
	return &ApiFile{
		Funcs:      []ApiFunc{},
		StructPool: make(map[string]ApiStruct),
	}
}

// StructNames returns the pool keys in sorted order.
func (f *ApiFile) StructNames() []string {
	names := make([]string, 0, len(f.StructPool))
	for name := range f.StructPool {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Func returns the function with the given name, if present.
func (f *ApiFile) Func(name string) (ApiFunc, bool) {
	for _, fn := range f.Funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return ApiFunc{}, false
}

// Struct resolves a StructRef against the pool.
func (f *ApiFile) Struct(ref StructRef) (ApiStruct, bool) {
	s, ok := f.StructPool[ref.Name]
	return s, ok
}
