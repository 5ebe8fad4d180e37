package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/parser"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// StdinPath makes the tokenize and parse dumps read standard input.
const StdinPath = "-"

// TokenizeResult is what the tokenize dump prints. On a lexical error Tokens
// holds the prefix scanned before it and Bag holds the error.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// ParseResult is what the parse dump prints. Tree is nil when the file has a
// lexical or syntax error.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
}

func loadSingle(path string) (*source.FileSet, *source.File, error) {
	var (
		content []byte
		err     error
	)
	if path == StdinPath {
		path = "<stdin>"
		if content, err = io.ReadAll(os.Stdin); err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	} else if content, err = readFile(path); err != nil {
		return nil, nil, err
	}
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddBytes(path, content)), nil
}

// Tokenize lexes one file for the tokenize dump.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs, file, err := loadSingle(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	toks, _ := lexer.All(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, File: file, Tokens: toks, Bag: bag}, nil
}

// Parse lexes and parses one file for the parse dump.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	tr, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := &ParseResult{FileSet: tr.FileSet, File: tr.File, Bag: tr.Bag}
	if tr.Bag.HasTooling() {
		return res, nil
	}

	tree, err := parser.ParseFile(ctx, tr.File, tr.Tokens, parser.Options{
		Reporter: diag.BagReporter{Bag: tr.Bag},
	})
	switch {
	case err == nil:
		res.Tree = tree
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case !tr.Bag.HasTooling():
		// ошибка без диагностики: поток токенов не закончился EOF
		return nil, err
	}
	return res, nil
}
