package source

import (
	"fmt"
	"strings"
	"unicode"
)

// Pos is a 1-based source position.
type Pos struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// IsValid reports whether the position carries line information.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return p.File
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// PatternKind classifies the binding pattern of a function parameter.
type PatternKind string

const (
	PatternIdent PatternKind = "ident" // x, mut x, ref x
	PatternSelf  PatternKind = "self"  // self, &self, &mut self
	PatternOther PatternKind = "other" // tuples, structs, wildcards, ...
)

// FieldLayout is the shape of a struct body.
type FieldLayout string

const (
	LayoutNamed FieldLayout = "named" // struct S { a: T }
	LayoutTuple FieldLayout = "tuple" // struct S(T);
	LayoutUnit  FieldLayout = "unit"  // struct S;
)

// ParamDecl is one function parameter.
type ParamDecl struct {
	Pattern PatternKind
	Name    string // set only for PatternIdent
	Text    string // the raw parameter text, for error messages
	Type    string // normalized
	Pos     Pos
}

// FuncDecl is a public top-level function.
type FuncDecl struct {
	Name       string
	Params     []ParamDecl
	ReturnType string // normalized; empty when HasReturn is false
	HasReturn  bool
	Pos        Pos
}

// FieldDecl is one struct field. Name is empty for tuple struct fields.
type FieldDecl struct {
	Name string
	Type string // normalized
	Pos  Pos
}

// StructDecl is a public top-level struct.
type StructDecl struct {
	Name   string
	Layout FieldLayout
	Fields []FieldDecl
	Pos    Pos
}

// Items is the result of scanning one file.
type Items struct {
	Funcs   []FuncDecl
	Structs map[string]StructDecl
}

// NewItems returns an empty result set.
func NewItems() *Items {
	return &Items{
		Funcs:   []FuncDecl{},
		Structs: make(map[string]StructDecl),
	}
}

// NormalizeType strips all whitespace from a type string.
func NormalizeType(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
