package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/parser"
	"lazy/internal/source"
)

func sampleFileSet() (*source.FileSet, source.FileID) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.Add("/work/src/a.lazy", []byte("let x = 1\nmain {}\n"), 0)
	return fs, id
}

func TestPrettyPathModes(t *testing.T) {
	fs, id := sampleFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 8, End: 9}, "boom"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "  --> src/a.lazy:1:9\n"},
		{PathModeRelative, "  --> src/a.lazy:1:9\n"},
		{PathModeAbsolute, "  --> /work/src/a.lazy:1:9\n"},
		{PathModeBasename, "  --> a.lazy:1:9\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("mode %d: want %q in\n%s", tt.mode, tt.want, buf.String())
		}
	}
}

func TestPrettyAutoKeepsVirtualPaths(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("mem/a.lazy", []byte("x"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 0, End: 1}, "boom"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "  --> mem/a.lazy:1:1\n") {
		t.Fatalf("virtual path rewritten:\n%s", buf.String())
	}
}

func TestPrettySeparatesDiagnostics(t *testing.T) {
	fs, id := sampleFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 0, End: 3}, "one").WithoutHighlight())
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 10, End: 14}, "two").WithoutHighlight())

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "error[SYN2001]: one\n  --> src/a.lazy:1:1\n\n" +
		"error[SYN2001]: two\n  --> src/a.lazy:2:1\n"
	if buf.String() != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs, id := sampleFileSet()
	d := diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 9, End: 9}, "expected ';'").
		WithFix("insert ';'", diag.FixEdit{Span: source.Span{File: id, Start: 9, End: 9}, NewText: ";"})
	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true, ShowPreview: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"  fix #1: insert ';'\n",
		"    src/a.lazy:1:10 apply=\";\"\n",
		"    preview:\n",
		"      - let x = 1\n",
		"      + let x = 1;\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "fix #1") {
		t.Fatal("fixes rendered without ShowFixes")
	}
}

func TestJSONOutput(t *testing.T) {
	fs, id := sampleFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 10, End: 14}, "boom").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "see here"))
	bag.Add(diag.NewError(diag.IOModuleNotFound, source.Span{}, "gone").WithoutHighlight())

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Severity != "error" || first.Code != "SYN2001" || first.Location == nil {
		t.Fatalf("first = %+v", first)
	}
	if loc := *first.Location; loc.File != "src/a.lazy" || loc.StartLine != 2 || loc.StartCol != 1 || loc.EndCol != 5 {
		t.Fatalf("location = %+v", loc)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "see here" {
		t.Fatalf("notes = %+v", first.Notes)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatalf("diagnostic without location got %+v", out.Diagnostics[1].Location)
	}

	limited := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if limited.Count != 1 {
		t.Fatalf("Max ignored: %d", limited.Count)
	}
}

func parseSnippet(t *testing.T, src string) (*ast.Builder, ast.FileID, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.lazy", []byte(src))
	reporter := &diag.SliceReporter{}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), fs, lx, b, parser.Options{Reporter: reporter})
	if items := reporter.Items(); len(items) > 0 {
		t.Fatalf("unexpected diagnostics: %v", items)
	}
	return b, res.File, fs
}

func TestFormatASTTree(t *testing.T) {
	b, file, fs := parseSnippet(t, "static x = 1 + 2;\nmain {}\n")

	var buf bytes.Buffer
	if err := FormatASTTree(&buf, b, file, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"File t.lazy\n",
		"├─ Stmt.Static x @1:1\n",
		"│  └─ Expr.Binary + @1:12\n",
		"│     ├─ Expr.Lit 1 @1:12\n",
		"│     └─ Expr.Lit 2 @1:16\n",
		"└─ Stmt.Main @2:1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	b, file, _ := parseSnippet(t, "static x = 1;")

	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, b, file); err != nil {
		t.Fatal(err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Type != "File" || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	static := root.Children[0]
	if static.Type != "Stmt.Static" || static.Detail != "x" || len(static.Children) != 1 {
		t.Fatalf("static = %+v", static)
	}
	if lit := static.Children[0]; lit.Type != "Expr.Lit" || lit.Detail != "1" {
		t.Fatalf("literal = %+v", lit)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.lazy", []byte("let x = 0x10;"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	tokens := lx.All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("want 6 lines (5 tokens + EOF), got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[3], `"0x10" at 1:9-1:13 = 16`) {
		t.Fatalf("literal line = %q", lines[3])
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 || out[0].Category != "keyword" || out[1].Category != "identifier" {
		t.Fatalf("tokens = %+v", out)
	}
}
