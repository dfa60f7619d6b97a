package compiler

import (
	"fmt"
	"log/slog"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
)

// tryParseStruct resolves ty against the public structs of the file and
// registers it in the pool on first sight.
//
// The name is marked in-progress before any field is classified. A field
// that refers back to the struct (directly or through other structs) then
// resolves to a bare StructRef, which is what makes recursive types
// terminate. The in-progress set is never cleared during a parse, so it
// doubles as the "already registered" set.
func (p *Parser) tryParseStruct(ty string) (ir.ApiType, bool, error) {
	if _, ok := p.structs[ty]; !ok {
		return nil, false, nil
	}

	ref := ir.StructRef{Name: ty}
	if p.inProgress[ty] {
		return ref, true, nil
	}
	if _, ok := p.pool[ty]; ok {
		return ref, true, nil
	}

	p.inProgress[ty] = true
	apiStruct, err := p.parseStruct(ty)
	if err != nil {
		return nil, true, err
	}
	p.pool[ty] = apiStruct

	return ref, true, nil
}

// parseStruct classifies every field of the named struct.
// Tuple struct fields are named field0, field1, ... by position.
func (p *Parser) parseStruct(name string) (ir.ApiStruct, error) {
	decl := p.structs[name]
	p.logger.Debug("parse struct",
		slog.String("name", name),
		slog.String("layout", string(decl.Layout)))

	var named bool
	switch decl.Layout {
	case source.LayoutNamed:
		named = true
	case source.LayoutTuple:
		named = false
	default:
		return ir.ApiStruct{}, newCompileError(KindUnsupportedFieldLayout, name, decl.Pos,
			"struct %q has %s layout, expected named or tuple fields", name, decl.Layout)
	}

	fields := make([]ir.ApiField, 0, len(decl.Fields))
	for idx, field := range decl.Fields {
		fieldName := field.Name
		if !named || fieldName == "" {
			fieldName = fmt.Sprintf("field%d", idx)
		}

		ty, err := p.parseType(field.Type, field.Pos)
		if err != nil {
			return ir.ApiStruct{}, err
		}
		fields = append(fields, ir.ApiField{Name: fieldName, Type: ty})
	}

	return ir.ApiStruct{
		Name:          name,
		Fields:        fields,
		IsFieldsNamed: named,
	}, nil
}
