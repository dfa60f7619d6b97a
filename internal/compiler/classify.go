package compiler

import (
	"log/slog"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
)

// parseType classifies a normalized type string. Shapes are tried in a fixed
// order and the first match wins:
//
//  1. primitive scalar
//  2. delegate
//  3. Vec<T>   (PrimitiveList when T is primitive, GeneralList otherwise)
//  4. Box<T>
//  5. public struct declared in the same file
//
// Wrapper shapes are checked before the struct lookup, so an unregistered
// generic name fails as UnrecognizedType instead of being misread.
// pos locates the declaration the type came from, for error reporting.
func (p *Parser) parseType(ty string, pos source.Pos) (ir.ApiType, error) {
	p.logger.Debug("parse type", slog.String("type", ty))

	if kind, ok := ir.PrimitiveFromName(ty); ok {
		return ir.Primitive{Kind: kind}, nil
	}
	if kind, ok := ir.DelegateFromName(ty); ok {
		return ir.Delegate{Kind: kind}, nil
	}
	if t, ok, err := p.tryParseList(ty, pos); ok || err != nil {
		return t, err
	}
	if t, ok, err := p.tryParseBox(ty, pos); ok || err != nil {
		return t, err
	}
	if t, ok, err := p.tryParseStruct(ty); ok || err != nil {
		return t, err
	}

	return nil, newCompileError(KindUnrecognizedType, ty, pos, "cannot resolve type %q", ty)
}

func (p *Parser) tryParseList(ty string, pos source.Pos) (ir.ApiType, bool, error) {
	innerStr, ok := captureList.Captures(ty)
	if !ok {
		return nil, false, nil
	}

	inner, err := p.parseType(innerStr, pos)
	if err != nil {
		return nil, true, err
	}

	if prim, ok := inner.(ir.Primitive); ok {
		return ir.PrimitiveList{Primitive: prim.Kind}, true, nil
	}
	return ir.GeneralList{Inner: inner}, true, nil
}

func (p *Parser) tryParseBox(ty string, pos source.Pos) (ir.ApiType, bool, error) {
	innerStr, ok := captureBox.Captures(ty)
	if !ok {
		return nil, false, nil
	}

	inner, err := p.parseType(innerStr, pos)
	if err != nil {
		return nil, true, err
	}
	return ir.Boxed{Inner: inner, ExistInRealAPI: true}, true, nil
}
