package compiler

import (
	"context"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
)

// ParseSource runs the Rust front end over content and resolves the result.
// A nil parser uses source.NewParser() defaults. Front-end failures
// (size, encoding, syntax) are returned unchanged; resolution failures are
// *CompileError.
func ParseSource(ctx context.Context, parser *source.Parser, content []byte, filePath string, opts ...Option) (*ir.ApiFile, error) {
	if parser == nil {
		parser = source.NewParser()
	}

	items, err := parser.Parse(ctx, content, filePath)
	if err != nil {
		return nil, err
	}

	return Parse(items, append([]Option{WithContext(ctx)}, opts...)...)
}
