package parser_test

import (
	"context"
	"fmt"
	"testing"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/parser"
	"lazy/internal/source"
	"lazy/internal/testkit"
)

type parsed struct {
	b      *ast.Builder
	file   ast.FileID
	src    *source.File
	diags  []diag.Diagnostic
	result parser.Result
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.lazy", []byte(input))
	file := fs.Get(fileID)
	reporter := &diag.SliceReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), fs, lx, b, parser.Options{Reporter: reporter, MaxErrors: 100})
	if err := testkit.CheckSpanInvariants(b, res.File, file); err != nil {
		t.Fatalf("span invariants for %q: %v", input, err)
	}
	if err := testkit.CheckSingleParent(b, res.File); err != nil {
		t.Fatalf("tree shape for %q: %v", input, err)
	}
	return parsed{b: b, file: res.File, src: file, diags: reporter.Items(), result: res}
}

func (p parsed) codes() []diag.Code {
	out := make([]diag.Code, len(p.diags))
	for i, d := range p.diags {
		out[i] = d.Code
	}
	return out
}

func (p parsed) has(code diag.Code) bool {
	for _, d := range p.diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func expectClean(t *testing.T, p parsed) {
	t.Helper()
	if len(p.diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v (%v)", p.codes(), p.diags[0].Message)
	}
}

// mainItems returns the statements of the file's main block.
func mainItems(t *testing.T, p parsed) []ast.ExprID {
	t.Helper()
	f := p.b.Files.Get(p.file)
	if !f.Main.IsValid() {
		t.Fatal("file has no main")
	}
	m, ok := p.b.Stmts.Main(f.Main)
	if !ok {
		t.Fatal("Main does not point at a main statement")
	}
	block, ok := p.b.Exprs.Block(m.Body)
	if !ok {
		t.Fatal("main body is not a block")
	}
	items := append([]ast.ExprID(nil), block.Stmts...)
	if block.Tail.IsValid() {
		items = append(items, block.Tail)
	}
	return items
}

func binary(t *testing.T, b *ast.Builder, id ast.ExprID, op ast.ExprBinaryOp) *ast.ExprBinaryData {
	t.Helper()
	data, ok := b.Exprs.Binary(id)
	if !ok {
		t.Fatalf("expr %d is %s, want Binary", id, b.Exprs.Get(id).Kind)
	}
	if data.Op != op {
		t.Fatalf("binary op = %s, want %s", data.Op, op)
	}
	return data
}

func TestDeclPrecedenceAndSpan(t *testing.T) {
	src := "main { let x = 1 + 2 * 3; }"
	p := parseSource(t, src)
	expectClean(t, p)

	items := mainItems(t, p)
	if len(items) != 1 {
		t.Fatalf("main has %d items, want 1", len(items))
	}
	decl, ok := p.b.Exprs.Decl(items[0])
	if !ok {
		t.Fatalf("item is %s, want Decl", p.b.Exprs.Get(items[0]).Kind)
	}
	if decl.Const || decl.Pattern.Kind != ast.PatternIdent || p.b.Name(decl.Pattern.Name) != "x" {
		t.Fatalf("decl pattern = %+v", decl.Pattern)
	}
	add := binary(t, p.b, decl.Value, ast.ExprBinaryAdd)
	binary(t, p.b, add.Right, ast.ExprBinaryMul)
	if lit, ok := p.b.Exprs.Literal(add.Left); !ok || lit.Int != 1 {
		t.Fatalf("left operand = %+v", lit)
	}

	sp := p.b.Exprs.Get(items[0]).Span
	if got := p.src.Text(sp); got != "let x = 1 + 2 * 3" {
		t.Fatalf("decl span text = %q", got)
	}
}

func TestBinaryLeftAssociative(t *testing.T) {
	tests := []struct {
		src string
		op  ast.ExprBinaryOp
	}{
		{"main { a - b - c; }", ast.ExprBinarySub},
		{"main { a / b / c; }", ast.ExprBinaryDiv},
		{"main { a = b = c; }", ast.ExprBinaryAssign},
		{"main { a && b && c; }", ast.ExprBinaryLogicalAnd},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := parseSource(t, tt.src)
			expectClean(t, p)
			items := mainItems(t, p)
			outer := binary(t, p.b, items[0], tt.op)
			binary(t, p.b, outer.Left, tt.op)
			if _, ok := p.b.Exprs.Ident(outer.Right); !ok {
				t.Fatal("right operand must be the last identifier")
			}
		})
	}
}

func TestPrecedenceLevels(t *testing.T) {
	// a || b && c == d + e * f  =>  a || (b && (c == (d + (e * f))))
	p := parseSource(t, "main { a || b && c == d + e * f; }")
	expectClean(t, p)
	items := mainItems(t, p)
	or := binary(t, p.b, items[0], ast.ExprBinaryLogicalOr)
	and := binary(t, p.b, or.Right, ast.ExprBinaryLogicalAnd)
	eq := binary(t, p.b, and.Right, ast.ExprBinaryEq)
	add := binary(t, p.b, eq.Right, ast.ExprBinaryAdd)
	binary(t, p.b, add.Right, ast.ExprBinaryMul)
}

func TestSuffixChain(t *testing.T) {
	p := parseSource(t, "main { io:out.print(a[0], b)?; }")
	expectClean(t, p)
	items := mainItems(t, p)
	opt, ok := p.b.Exprs.Wrap(items[0])
	if !ok || p.b.Exprs.Get(items[0]).Kind != ast.ExprOptional {
		t.Fatalf("outer = %s, want Optional", p.b.Exprs.Get(items[0]).Kind)
	}
	call, ok := p.b.Exprs.Call(opt.Value)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("call = %+v", call)
	}
	if _, ok := p.b.Exprs.Index(call.Args[0]); !ok {
		t.Fatal("first argument must be an index expression")
	}
	member, ok := p.b.Exprs.Member(call.Target)
	if !ok || p.b.Name(member.Name) != "print" {
		t.Fatalf("call target = %+v", member)
	}
	path, ok := p.b.Exprs.Path(member.Target)
	if !ok || p.b.Name(path.Name) != "out" {
		t.Fatalf("member target = %+v", path)
	}
}

func TestModulePathNeedsGluedColon(t *testing.T) {
	p := parseSource(t, "main { io:print(1); }")
	expectClean(t, p)
	call, _ := p.b.Exprs.Call(mainItems(t, p)[0])
	path, ok := p.b.Exprs.Path(call.Target)
	if !ok || p.b.Name(path.Name) != "print" {
		t.Fatalf("call target is not a module path: %+v", path)
	}

	p = parseSource(t, "main { io::print; }")
	expectClean(t, p)
	if _, ok := p.b.Exprs.Path(mainItems(t, p)[0]); !ok {
		t.Fatal("'::' always starts a module path")
	}

	// a spaced ':' ends the arm pattern instead of continuing a path
	p = parseSource(t, "main { match x { a : b => 1 } }")
	if !p.has(diag.SynExpectFatArrow) {
		t.Fatalf("diagnostics = %v", p.codes())
	}
}

func TestTemplateInterpolation(t *testing.T) {
	p := parseSource(t, "main { `Hello ${1+1}`; }")
	expectClean(t, p)
	tmpl, ok := p.b.Exprs.Template(mainItems(t, p)[0])
	if !ok {
		t.Fatal("item is not a template")
	}
	if len(tmpl.Parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(tmpl.Parts))
	}
	if tmpl.Parts[0].Offset != 6 {
		t.Fatalf("part offset = %d, want 6", tmpl.Parts[0].Offset)
	}
	binary(t, p.b, tmpl.Parts[0].Value, ast.ExprBinaryAdd)
}

func TestTemplateTrailingTokens(t *testing.T) {
	p := parseSource(t, "main { `a ${1 2}`; }")
	if !p.has(diag.SynTrailingInterpolation) {
		t.Fatalf("diagnostics = %v, want SynTrailingInterpolation", p.codes())
	}
}

func TestGenericCloseSplitsGtEq(t *testing.T) {
	p := parseSource(t, "static x: Box<Int>= 1")
	expectClean(t, p)
	f := p.b.Files.Get(p.file)
	static, ok := p.b.Stmts.Static(f.Stmts[0])
	if !ok {
		t.Fatal("not a static")
	}
	if _, ok := p.b.Types.Generic(static.Type); !ok {
		t.Fatalf("type is %s, want Generic", p.b.Types.Get(static.Type).Kind)
	}
	if lit, ok := p.b.Exprs.Literal(static.Value); !ok || lit.Int != 1 {
		t.Fatal("static value must be the literal 1")
	}
}

func TestNestedGenericTypes(t *testing.T) {
	p := parseSource(t, "type A = Map<Str, List<Int>>;")
	expectClean(t, p)
	f := p.b.Files.Get(p.file)
	alias, ok := p.b.Stmts.TypeAlias(f.Stmts[0])
	if !ok {
		t.Fatal("not a type alias")
	}
	outer, ok := p.b.Types.Generic(alias.Type)
	if !ok || len(outer.Args) != 2 {
		t.Fatalf("outer generic = %+v", outer)
	}
	if _, ok := p.b.Types.Generic(outer.Args[1]); !ok {
		t.Fatal("second argument must be generic")
	}
}

func TestNestedGenericParamRejected(t *testing.T) {
	p := parseSource(t, "struct Box<T<U>> { v: T }")
	if !p.has(diag.SynNestedGenericParam) {
		t.Fatalf("diagnostics = %v", p.codes())
	}
}

func TestMatchArms(t *testing.T) {
	p := parseSource(t, "main { match x { 1 | 2 => a, 3..=9 => b, color:Red => c, _ => d } }")
	expectClean(t, p)
	m, ok := p.b.Exprs.Match(mainItems(t, p)[0])
	if !ok {
		t.Fatal("not a match")
	}
	if len(m.Arms) != 4 {
		t.Fatalf("arms = %d, want 4", len(m.Arms))
	}
	if len(m.Arms[0].Patterns) != 2 {
		t.Fatalf("first arm patterns = %d, want 2", len(m.Arms[0].Patterns))
	}
	if _, ok := p.b.Exprs.Range(m.Arms[1].Patterns[0]); !ok {
		t.Fatal("second arm must be a range pattern")
	}
	if _, ok := p.b.Exprs.Path(m.Arms[2].Patterns[0]); !ok {
		t.Fatal("third arm must be a module path")
	}
}

func TestMatchGuard(t *testing.T) {
	p := parseSource(t, "main { match x { [1, _] if ok => a } }")
	expectClean(t, p)
	m, _ := p.b.Exprs.Match(mainItems(t, p)[0])
	if !m.Arms[0].Guard.IsValid() {
		t.Fatal("guard missing")
	}
}

func TestIncorrectMatchArm(t *testing.T) {
	p := parseSource(t, "main { match x { f(1) => a, _ => b } }")
	if got := p.codes(); len(got) != 1 || got[0] != diag.SynIncorrectMatchArm {
		t.Fatalf("diagnostics = %v, want [SynIncorrectMatchArm]", got)
	}
	m, _ := p.b.Exprs.Match(mainItems(t, p)[0])
	if len(m.Arms) != 2 {
		t.Fatalf("arms = %d, want 2 (tree still built)", len(m.Arms))
	}
}

func TestSecondMainReported(t *testing.T) {
	p := parseSource(t, "main { }\nmain { }\n")
	if got := p.codes(); len(got) != 1 || got[0] != diag.SynTooManyEntryPoints {
		t.Fatalf("diagnostics = %v", got)
	}
	f := p.b.Files.Get(p.file)
	if len(f.Stmts) != 2 || f.Main != f.Stmts[0] {
		t.Fatalf("main = %d, stmts = %v", f.Main, f.Stmts)
	}
	if len(p.diags[0].Notes) != 1 {
		t.Fatal("second main should point back at the first one")
	}
}

func TestExportMain(t *testing.T) {
	p := parseSource(t, "export main { }")
	if got := p.codes(); len(got) != 1 || got[0] != diag.SynExportMain {
		t.Fatalf("diagnostics = %v", got)
	}
	if !p.b.Files.Get(p.file).Main.IsValid() {
		t.Fatal("main still parsed")
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []diag.Code
		stmts int
	}{
		{"unexpected top level", "garbage here\nmain { }", []diag.Code{diag.SynUnexpectedTopLevel}, 1},
		{"missing semicolon in block", "main { let a = 1 let b = 2; }", []diag.Code{diag.SynExpectSemicolon}, 1},
		{"top-level semicolon on one line", "static a = 1 static b = 2", []diag.Code{diag.SynExpectSemicolon}, 2},
		{"unclosed brace", "main { let a = 1;", []diag.Code{diag.SynUnclosedBrace}, 0},
		{"stray closer in block", "main { ) ; a; }", []diag.Code{diag.SynExpectExpression}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if fmt.Sprint(p.codes()) != fmt.Sprint(tt.codes) {
				t.Fatalf("diagnostics = %v, want %v", p.codes(), tt.codes)
			}
			if got := len(p.b.Files.Get(p.file).Stmts); got != tt.stmts {
				t.Fatalf("stmts = %d, want %d", got, tt.stmts)
			}
		})
	}
}

func TestMalformedNumberReportedOnce(t *testing.T) {
	p := parseSource(t, "static x = 1.2.3;\nstatic y = 2;\n")
	if fmt.Sprint(p.codes()) != fmt.Sprint([]diag.Code{diag.LexExtraDecimalPoint}) {
		t.Fatalf("diagnostics = %v", p.codes())
	}
	if got := len(p.b.Files.Get(p.file).Stmts); got != 2 {
		t.Fatalf("stmts = %d, want 2", got)
	}
}

func TestOptionalTopLevelSemicolon(t *testing.T) {
	p := parseSource(t, "import {A} from \"a.lazy\"\nstatic b = A\n")
	expectClean(t, p)
	if got := len(p.b.Files.Get(p.file).Stmts); got != 2 {
		t.Fatalf("stmts = %d, want 2", got)
	}
}

func TestImports(t *testing.T) {
	p := parseSource(t, "import {a, b as c} from \"m.lazy\";\nimport * from \"n.lazy\" as n;")
	expectClean(t, p)
	f := p.b.Files.Get(p.file)
	first, _ := p.b.Stmts.Import(f.Stmts[0])
	if first.Path != "m.lazy" || len(first.Items) != 2 || p.b.Name(first.Items[1].Alias) != "c" {
		t.Fatalf("first import = %+v", first)
	}
	second, _ := p.b.Stmts.Import(f.Stmts[1])
	if !second.Wildcard || p.b.Name(second.Alias) != "n" {
		t.Fatalf("second import = %+v", second)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"item import alias", "import {a} from \"m.lazy\" as m;", diag.SynImportAliasNotAllowed},
		{"import without from", "import {a} \"m.lazy\";", diag.SynImportExpectFrom},
		{"import path", "import {a} from m;", diag.SynImportExpectPath},
		{"fn type in static", "static f: fn(Int) -> Int = g;", diag.SynFnTypeNotAllowed},
		{"const without value", "main { const a; }", diag.SynConstNeedsValue},
		{"duplicate annotation", "main { let a: Int: Int = 1; }", diag.SynDuplicateAnnotation},
		{"yield outside block", "static a = yield 1;", diag.SynYieldOutsideBlock},
		{"break outside loop", "main { break; }", diag.SynJumpOutsideLoop},
		{"for without in", "main { for x of xs { } }", diag.SynExpectIn},
		{"impl without for", "impl Show Point { }", diag.SynExpectFor},
		{"bad pattern", "main { let 1 = a; }", diag.SynBadPattern},
		{"match without arrow", "main { match x { 1 a } }", diag.SynExpectFatArrow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if !p.has(tt.code) {
				t.Fatalf("diagnostics = %v, want %v", p.codes(), tt.code)
			}
		})
	}
}

func TestFnTypesAllowedInDeclarations(t *testing.T) {
	for _, src := range []string{
		"type F = fn(Int) -> Int;",
		"struct S { cb: fn(a: Int) }",
		"enum E { Call: fn() -> Int }",
	} {
		p := parseSource(t, src)
		expectClean(t, p)
	}
}

func TestLoopsAllowJumps(t *testing.T) {
	p := parseSource(t, "main { while a { if b { break; } continue; } for x in 0..10 { } }")
	expectClean(t, p)
	items := mainItems(t, p)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	f, ok := p.b.Exprs.For(items[1])
	if !ok || p.b.Name(f.Var) != "x" {
		t.Fatal("second item must be a for loop")
	}
	if _, ok := p.b.Exprs.Range(f.Iter); !ok {
		t.Fatal("for iterates over a range")
	}
}

func TestFnLiteralClearsLoop(t *testing.T) {
	p := parseSource(t, "main { while a { let f = fn() { break; }; } }")
	if !p.has(diag.SynJumpOutsideLoop) {
		t.Fatalf("diagnostics = %v", p.codes())
	}
}

func TestDeclarations(t *testing.T) {
	src := `
#inline
export struct Point<T: Num> { x: T, y: T }
enum Shape { Dot, Circle: Int }
impl Show for Point<Int> { show: fn(self) { self.x } }
main {
	let [a, ...rest] = xs;
	let {x, y: py} = new Point<Int> { x: 1, y };
	const f = fn<T>(v: T, ...more, n: Int = 2) -> T { v };
}
`
	p := parseSource(t, src)
	expectClean(t, p)
	f := p.b.Files.Get(p.file)
	if len(f.Stmts) != 4 {
		t.Fatalf("stmts = %d, want 4", len(f.Stmts))
	}
	attr, ok := p.b.Stmts.Attr(f.Stmts[0])
	if !ok || p.b.Name(attr.Name) != "inline" {
		t.Fatal("first item must be an attribute")
	}
	export, ok := p.b.Stmts.Export(attr.Inner)
	if !ok {
		t.Fatal("attribute must wrap the export")
	}
	st, ok := p.b.Stmts.Struct(export.Inner)
	if !ok || len(st.Fields) != 2 || len(st.Generics) != 1 || !st.Generics[0].Bound.IsValid() {
		t.Fatalf("struct = %+v", st)
	}
	enum, _ := p.b.Stmts.Enum(f.Stmts[1])
	if len(enum.Variants) != 2 || !enum.Variants[1].Payload.IsValid() {
		t.Fatalf("enum = %+v", enum)
	}

	items := mainItems(t, p)
	tuple, _ := p.b.Exprs.Decl(items[0])
	if tuple.Pattern.Kind != ast.PatternTuple || p.b.Name(tuple.Pattern.Rest) != "rest" {
		t.Fatalf("tuple pattern = %+v", tuple.Pattern)
	}
	strct, _ := p.b.Exprs.Decl(items[1])
	if strct.Pattern.Kind != ast.PatternStruct || len(strct.Pattern.Fields) != 2 {
		t.Fatalf("struct pattern = %+v", strct.Pattern)
	}
	newExpr, ok := p.b.Exprs.New(strct.Value)
	if !ok || len(newExpr.Fields) != 2 {
		t.Fatal("value must be a new-expression with two fields")
	}
	fnDecl, _ := p.b.Exprs.Decl(items[2])
	fn, ok := p.b.Exprs.Fn(fnDecl.Value)
	if !ok || len(fn.Params) != 3 || !fn.Params[1].Rest || !fn.Params[2].Default.IsValid() {
		t.Fatalf("fn = %+v", fn)
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lazy", []byte("main { }\nmain { }\nmain { }\n")))
	reporter := &diag.SliceReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), fs, lx, b, parser.Options{Reporter: reporter, MaxErrors: 1})
	if got := len(reporter.Items()); got != 1 {
		t.Fatalf("reported %d diagnostics, want 1", got)
	}
	if res.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", res.Errors)
	}
}
