package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

const (
	// DefaultMaxFileSize is the largest source file accepted (10MB).
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	// DefaultWarnFileSize is the size above which a warning is logged (1MB).
	DefaultWarnFileSize int64 = 1024 * 1024
)

var (
	// ErrFileTooLarge is returned when content exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent is returned when content is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrSyntax is returned when tree-sitter reports syntax errors.
	ErrSyntax = errors.New("syntax error")
)

// ParserOption configures a Parser instance.
type ParserOption func(*Parser)

// WithMaxFileSize sets the maximum file size the parser will accept.
// Non-positive values are ignored.
func WithMaxFileSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithWarnFileSize sets the size above which a large-file warning is logged.
func WithWarnFileSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.warnFileSize = bytes
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser parses Rust source with tree-sitter and extracts public items.
//
// Parser instances are safe for concurrent use: each Parse call creates its
// own tree-sitter parser.
type Parser struct {
	maxFileSize  int64
	warnFileSize int64
	logger       *slog.Logger
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		maxFileSize:  DefaultMaxFileSize,
		warnFileSize: DefaultWarnFileSize,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses content and returns the public items it declares.
//
// The returned error wraps ErrFileTooLarge, ErrInvalidContent or ErrSyntax
// for rejected input, or the context error if ctx is done. Tree-sitter
// parsing itself cannot be interrupted mid-parse.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*Items, error) {
	ctx, span := startParseSpan(ctx, filePath, len(content))
	defer span.End()

	start := time.Now()

	items, err := p.parse(ctx, content, filePath)
	if err != nil {
		recordParse(ctx, time.Since(start), false)
		endSpanWithError(span, err)
		return nil, err
	}

	setParseSpanResult(span, len(items.Funcs), len(items.Structs))
	recordParse(ctx, time.Since(start), true)
	return items, nil
}

func (p *Parser) parse(ctx context.Context, content []byte, filePath string) (*Items, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if int64(len(content)) > p.warnFileSize {
		p.logger.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: tree-sitter returned nil root node", ErrSyntax)
	}
	if root.HasError() {
		if pos, ok := firstErrorPos(root, filePath); ok {
			return nil, fmt.Errorf("%w at %s", ErrSyntax, pos)
		}
		return nil, fmt.Errorf("%w in %s", ErrSyntax, filePath)
	}

	items := Extract(root, content, filePath)
	p.logger.Debug("extracted items",
		slog.String("file", filePath),
		slog.Int("funcs", len(items.Funcs)),
		slog.Int("structs", len(items.Structs)))

	return items, nil
}

// firstErrorPos finds the first ERROR or missing node in document order.
func firstErrorPos(node *sitter.Node, filePath string) (Pos, bool) {
	if node.Type() == "ERROR" || node.IsMissing() {
		return nodePos(node, filePath), true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if pos, ok := firstErrorPos(child, filePath); ok {
			return pos, true
		}
	}
	return Pos{}, false
}

func nodePos(node *sitter.Node, filePath string) Pos {
	pt := node.StartPoint()
	return Pos{File: filePath, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}
