package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/parser"
	"lazy/internal/source"
	"lazy/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse parses a single file from disk without following its imports.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	builder := ast.NewBuilder(ast.Hints{}, nil)
	fileAST, err := parseInto(ctx, fs, file, builder, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  fileAST,
		Bag:     bag,
	}, nil
}

// parseInto lexes and parses file into builder, reporting into bag.
func parseInto(ctx context.Context, fs *source.FileSet, file *source.File, builder *ast.Builder, bag *diag.Bag, maxDiagnostics int) (ast.FileID, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return 0, fmt.Errorf("max diagnostics: %w", err)
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeModule, "parse", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", file.Path)
	defer span.End("")

	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	result := parser.ParseFile(ctx, fs, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})
	return result.File, nil
}
