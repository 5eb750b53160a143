package fuzztests

import (
	"context"
	"testing"
	"time"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/parser"
	"lazy/internal/source"
	"lazy/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(ctx context.Context, input []byte) (*ast.Builder, ast.FileID, *source.File) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.lazy", input)
	file := fs.Get(fileID)

	reporter := diag.BagReporter{Bag: diag.NewBag(128)}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(ctx, fs, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: 128,
	})
	return builder, res.File, file
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		b, fileID, file := parseInput(context.Background(), clampInput(input))
		if err := testkit.CheckSpanInvariants(b, fileID, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
		if err := testkit.CheckSingleParent(b, fileID); err != nil {
			t.Fatalf("tree shape: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// Recovery loops that stop consuming tokens show up as timeouts.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("main { let x = 1\nlet y = 2; }"))    // missing semicolon
	f.Add([]byte("main { x + y\nlet z = 3; }"))        // expression without semicolon
	f.Add([]byte("struct S<T<U>> { a: T }"))           // nested generic parameter
	f.Add([]byte("{ let x = 1 }"))                     // block at top level
	f.Add([]byte("main { { { { } } } }"))              // deeply nested blocks
	f.Add([]byte("main { match x { } }"))              // empty match
	f.Add([]byte("main { for i in { } }"))             // for without body
	f.Add([]byte("import {a, from \"m\";"))            // unclosed import list
	f.Add([]byte("main { `unterminated ${ 1 + }"))     // broken interpolation
	f.Add([]byte("#attr(1, 2\nexport export main {}")) // cascading wrappers

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			parseInput(ctx, input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
