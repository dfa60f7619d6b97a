package compiler

import (
	"context"
	"log/slog"

	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
)

// Option configures a single Parse call.
type Option func(*Parser)

// WithLogger sets the logger for per-function and per-type debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithContext sets the context used for tracing and metrics.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// Parser holds the state of one resolution pass: the struct lookup from the
// source file, the struct pool being built, and the names already being (or
// done being) registered. A Parser is used for exactly one Parse call and is
// not safe for concurrent use.
type Parser struct {
	structs    map[string]source.StructDecl
	pool       map[string]ir.ApiStruct
	inProgress map[string]bool
	logger     *slog.Logger
	ctx        context.Context
}

func newParser(structs map[string]source.StructDecl, opts ...Option) *Parser {
	if structs == nil {
		structs = map[string]source.StructDecl{}
	}
	p := &Parser{
		structs:    structs,
		pool:       make(map[string]ir.ApiStruct),
		inProgress: make(map[string]bool),
		logger:     slog.Default(),
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse resolves every public function in items into an ApiFile.
//
// Functions keep their declaration order. Every struct reachable from a
// function signature is registered in the pool exactly once. The first
// failure aborts the whole parse: on error the returned file is nil.
//
// Example:
//
//	items, err := source.NewParser().Parse(ctx, content, "api.rs")
//	if err != nil {
//	    return err
//	}
//	file, err := compiler.Parse(items)
func Parse(items *source.Items, opts ...Option) (*ir.ApiFile, error) {
	if items == nil {
		items = source.NewItems()
	}

	p := newParser(items.Structs, opts...)

	ctx, span := startResolveSpan(p.ctx, len(items.Funcs), len(items.Structs))
	defer span.End()

	funcs := make([]ir.ApiFunc, 0, len(items.Funcs))
	for _, fn := range items.Funcs {
		apiFunc, err := p.parseFunction(fn)
		if err != nil {
			finishResolve(ctx, span, 0, err)
			return nil, err
		}
		funcs = append(funcs, apiFunc)
	}

	finishResolve(ctx, span, len(p.pool), nil)
	return &ir.ApiFile{
		Funcs:      funcs,
		StructPool: p.pool,
	}, nil
}
