package parser

import (
	"context"
	"fmt"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// DefaultMaxDepth bounds recursion for pathological inputs.
const DefaultMaxDepth = 256

type Options struct {
	// Reporter receives the syntax error, if any. May be nil.
	Reporter diag.Reporter
	// MaxDepth bounds nesting of expressions, types and blocks. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Error is the first syntax error of a file. Parsing stops there and no
// tree is produced.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code.ID(), e.Span, e.Msg)
}

// Diagnostic converts the error into a tooling diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

// Parser — состояние парсера на один файл
type Parser struct {
	file  *source.File
	toks  []token.Token
	pos   int
	b     *ast.Builder
	opts  Options
	err   *Error
	depth int

	// noTrailingClosure is set while parsing conditions, where '{' opens the body.
	noTrailingClosure bool
	// bindIdents turns bare identifiers into IdentPattern inside let/var patterns.
	bindIdents bool
	// speculating suppresses reporting while a lookahead parse runs.
	speculating int
}

// ParseFile builds the syntax tree for file from its complete token stream
// (which must end with EOF). The first syntax error aborts the file.
func ParseFile(ctx context.Context, file *source.File, toks []token.Token, opts Options) (*ast.Tree, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return nil, fmt.Errorf("parser: token stream for %s does not end with EOF", file.Path)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &Parser{
		file: file,
		toks: toks,
		b:    ast.NewBuilder(file.ID, toks),
		opts: opts,
	}
	root, ok := p.parseFile(ctx)
	if !ok {
		if p.err == nil {
			// отмена контекста
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("parser: %s: aborted without diagnostic", file.Path)
		}
		if p.opts.Reporter != nil {
			p.opts.Reporter.Report(p.err.Diagnostic())
		}
		return nil, p.err
	}
	tree := p.b.Finish(file, root)
	n := tree.Node(root)
	n.Span = source.Span{File: file.ID, Start: 0, End: file.Size()}
	return tree, nil
}

// parseFile — основной цикл верхнего уровня: пока не EOF — parseStatement.
// Top-level code in Swift mixes declarations and statements.
func (p *Parser) parseFile(ctx context.Context) (ast.NodeID, bool) {
	var items []ast.NodeID
	for !p.at(token.EOF) {
		if err := ctx.Err(); err != nil {
			return ast.NoNodeID, false
		}
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		id, ok := p.parseStatement()
		if !ok {
			return ast.NoNodeID, false
		}
		items = append(items, id)
		if !p.endOfStatement() {
			return ast.NoNodeID, false
		}
	}
	return p.b.New(ast.KindFile, 0, p.pos-1, ast.NoTok, p.file.Path, items...), true
}
