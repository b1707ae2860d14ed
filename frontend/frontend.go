package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/afs"
	"github.com/viant/unused/syntax"
)

// ErrParse reports that no usable syntax tree could be produced for a file
var ErrParse = errors.New("parse failure")

// Frontend parses a source file with its compiler arguments into a syntax tree
type Frontend interface {
	// Parse reads and parses the file at path
	Parse(ctx context.Context, path string, args []string) (syntax.Node, error)
}

// Parser is a tree-sitter based C/C++ front-end
type Parser struct {
	fs     afs.Service
	logger *slog.Logger
}

// Parse reads the file at path and parses it with the grammar selected by args
func (p *Parser) Parse(ctx context.Context, path string, args []string) (syntax.Node, error) {
	src, err := p.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %v", ErrParse, path, err)
	}
	language := DetectLanguage(path, args)
	p.logger.Debug("parsing", "path", path, "language", string(language), "args", len(args))
	root, err := p.ParseSource(ctx, src, language)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	return root, nil
}

// ParseSource parses src; a tree containing syntax errors is rejected
func (p *Parser) ParseSource(ctx context.Context, src []byte, language Language) (syntax.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(language.Grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	rootNode := tree.RootNode()
	if bad := firstError(rootNode); bad != nil {
		return nil, fmt.Errorf("%w: syntax error at %v", ErrParse, position(bad.StartPoint()))
	}
	b := &builder{src: src, macros: collectMacros(rootNode, src)}
	return b.build(rootNode, walkContext{}), nil
}

// New creates a tree-sitter front-end reading files with fs
func New(fs afs.Service, logger *slog.Logger) *Parser {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{fs: fs, logger: logger}
}
