package loader_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/host"
	"lazy/internal/lexer"
	"lazy/internal/loader"
	"lazy/internal/parser"
	"lazy/internal/symbols"
)

func newHost(files map[string]string) (*host.Host, *loader.Loader) {
	h := host.New(host.Options{Provider: host.NewMemProvider(files)})
	l := loader.New(h, loader.Options{MaxErrors: 50})
	h.Attach(l)
	return h, l
}

func load(t *testing.T, l *loader.Loader, path string) (*symbols.Module, []diag.Diagnostic) {
	t.Helper()
	return l.Load(context.Background(), path)
}

// buildPartial runs the module builder on an already loadable source and
// returns whatever bindings survived.
func buildPartial(t *testing.T, h *host.Host, l *loader.Loader, path string) (*symbols.Module, []diag.Diagnostic) {
	t.Helper()
	src, err := h.Source(path)
	if err != nil {
		t.Fatal(err)
	}
	tree := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), h.FileSet(), lexer.New(src, lexer.Options{}), tree, parser.Options{})
	return l.BuildModule(context.Background(), loader.Unit{Path: h.Resolve(path), Tree: tree, File: res.File, Source: src})
}

func only(t *testing.T, ds []diag.Diagnostic, code diag.Code) diag.Diagnostic {
	t.Helper()
	if len(ds) != 1 || ds[0].Code != code {
		t.Fatalf("diagnostics = %+v, want exactly one %s", ds, code)
	}
	return ds[0]
}

func TestTwoFileExportImport(t *testing.T) {
	h, l := newHost(map[string]string{
		"a":    "export struct Point { x: Int, y: Int }\nstruct Hidden {}\n",
		"main": "import {Point} from \"a\";\nmain { let p = 1; }\n",
	})
	mod, ds := load(t, l, "main")
	if len(ds) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ds)
	}
	dep, ok := h.Get("a")
	if !ok {
		t.Fatal("imported module must be cached")
	}
	id, ok := mod.Lookup("Point")
	if !ok || id != dep.Exported["Point"] {
		t.Fatalf("Point = %d, exported as %d", id, dep.Exported["Point"])
	}
	if _, ok := mod.Lookup("Hidden"); ok {
		t.Fatal("unexported name leaked")
	}
	if !mod.HasEntry || len(mod.Imports) != 1 || mod.Imports[0] != "a.lazy" {
		t.Fatalf("module = %+v", mod)
	}
	sym, _ := h.Table().Get(id)
	if sym.Name != "Point" || sym.Kind != symbols.SymbolStruct || sym.Module != "a.lazy" {
		t.Fatalf("symbol = %+v", sym)
	}
	for _, m := range []*symbols.Module{mod, dep} {
		if err := m.Validate(h.Table()); err != nil {
			t.Fatalf("%s: %v", m.Path, err)
		}
	}
}

func TestImportAliasKeepsSymbolID(t *testing.T) {
	h, l := newHost(map[string]string{
		"a": "export enum Color { Red, Green }",
		"m": "import {Color as C} from \"a\";",
	})
	mod, ds := load(t, l, "m")
	if len(ds) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ds)
	}
	dep, _ := h.Get("a")
	if mod.Local["C"] != dep.Exported["Color"] {
		t.Fatal("alias must bind the original symbol ID")
	}
	if _, ok := mod.Lookup("Color"); ok {
		t.Fatal("aliased import must not bind the original name")
	}
}

func TestMissingImportItem(t *testing.T) {
	h, l := newHost(map[string]string{
		"a": "export struct A {}\nstruct B {}",
		"m": "import {A, B} from \"a\";",
	})
	mod, ds := load(t, l, "m")
	d := only(t, ds, diag.SemNotFoundFromModule)
	if d.Message != `'B' is not exported from "a"` {
		t.Fatalf("message = %q", d.Message)
	}
	if mod != nil {
		t.Fatal("a module with link errors is not returned")
	}

	mod, _ = buildPartial(t, h, l, "m")
	if _, ok := mod.Lookup("B"); ok {
		t.Fatal("missing item must not be bound")
	}
	if _, ok := mod.Lookup("A"); !ok {
		t.Fatal("the other items still bind")
	}
}

func TestDuplicateIdentifier(t *testing.T) {
	h, l := newHost(map[string]string{
		"m": "struct A {}\nenum A { X }\n",
	})
	mod, ds := load(t, l, "m")
	d := only(t, ds, diag.SemDuplicateIdentifier)
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first declared here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if mod != nil {
		t.Fatal("a module with link errors is not returned")
	}
	if _, ok := h.Get("m"); ok {
		t.Fatal("host must not cache a usable module")
	}
	if h.Table().Len() != 1 {
		t.Fatalf("table holds %d symbols", h.Table().Len())
	}

	mod, _ = buildPartial(t, h, l, "m")
	sym, _ := h.Table().Get(mod.Local["A"])
	if sym.Kind != symbols.SymbolStruct {
		t.Fatalf("first declaration must win, got %s", sym.Kind)
	}
}

func TestImportCycle(t *testing.T) {
	h, l := newHost(map[string]string{
		"a": "import {B} from \"b\";\nexport struct A {}\n",
		"b": "import {A} from \"a\";\nexport struct B {}\n",
	})
	modA, ds := load(t, l, "a")
	if modA != nil {
		t.Fatal("a depends on a module that failed to link")
	}
	only(t, ds, diag.SemDependencyFailed)
	d := only(t, h.Diagnostics("b"), diag.SemImportCycle)
	if d.Message != "import cycle: a.lazy -> b.lazy -> a.lazy" {
		t.Fatalf("message = %q", d.Message)
	}
	if _, ok := h.Get("b"); ok {
		t.Fatal("the module closing the cycle is not usable")
	}
}

func TestLinkErrorsFailImporters(t *testing.T) {
	h, l := newHost(map[string]string{
		"a": "export struct A {}\nexport enum A { X }\n",
		"m": "import {A} from \"a\";\nexport struct M {}\n",
	})
	mod, ds := load(t, l, "m")
	if mod != nil {
		t.Fatal("importer of a broken module is not returned")
	}
	d := only(t, ds, diag.SemDependencyFailed)
	if d.Message != `module "a" has errors` || len(d.Notes) != 1 {
		t.Fatalf("diagnostic = %+v", d)
	}
	only(t, h.Diagnostics("a"), diag.SemDuplicateIdentifier)

	partial, _ := buildPartial(t, h, l, "m")
	if _, ok := partial.Lookup("A"); ok {
		t.Fatal("nothing is bound from a module with link errors")
	}
	if _, ok := partial.Lookup("M"); !ok {
		t.Fatal("local declarations still bind")
	}
}

func TestConcurrentLoadsOfCycle(t *testing.T) {
	h, l := newHost(map[string]string{
		"a": "import {B} from \"b\";\nexport struct A {}\n",
		"b": "import {A} from \"a\";\nexport struct B {}\n",
	})
	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, p := range []string{"a", "b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Load(context.Background(), p)
			}()
		}
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent loads of an import cycle never finished")
	}

	cycles := 0
	for _, p := range []string{"a", "b"} {
		for _, d := range h.Diagnostics(p) {
			if d.Code == diag.SemImportCycle {
				cycles++
			}
		}
	}
	if cycles != 1 {
		t.Fatalf("cycle diagnostics = %d, want 1", cycles)
	}
}

func TestSelfImport(t *testing.T) {
	_, l := newHost(map[string]string{"a": "import * from \"a\";"})
	_, ds := load(t, l, "a")
	if d := only(t, ds, diag.SemImportCycle); d.Message != "import cycle: a.lazy -> a.lazy" {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestModuleNotFound(t *testing.T) {
	_, l := newHost(map[string]string{"m": "import {X} from \"missing\";"})
	_, ds := load(t, l, "m")
	if d := only(t, ds, diag.IOModuleNotFound); d.Message != `module "missing" not found` {
		t.Fatalf("message = %q", d.Message)
	}

	mod, ds := load(t, l, "nowhere")
	if mod != nil {
		t.Fatal("missing root must not produce a module")
	}
	if d := only(t, ds, diag.IOModuleNotFound); d.Highlight {
		t.Fatal("a root without source has no snippet")
	}
}

func TestDependencyFailed(t *testing.T) {
	h, l := newHost(map[string]string{
		"bad": "struct {",
		"m":   "import {A} from \"bad\";",
	})
	_, ds := load(t, l, "m")
	d := only(t, ds, diag.SemDependencyFailed)
	if len(d.Notes) != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if _, ok := h.Get("bad"); ok {
		t.Fatal("a module with syntax errors is not built")
	}
	if !diag.HasErrors(h.Diagnostics("bad")) {
		t.Fatal("the broken module keeps its own diagnostics")
	}
}

func TestWildcardImports(t *testing.T) {
	h, l := newHost(map[string]string{
		"lib": "export struct A {}\nexport static b = 1;\nstruct hidden {}\n",
		"m":   "import * from \"lib\";",
		"n":   "import * from \"lib\" as lib;",
	})
	lib, _ := load(t, l, "lib")

	m, ds := load(t, l, "m")
	if len(ds) != 0 {
		t.Fatalf("m: %+v", ds)
	}
	names := m.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "b" {
		t.Fatalf("names = %v", names)
	}
	if m.Local["b"] != lib.Exported["b"] {
		t.Fatal("wildcard keeps symbol IDs")
	}

	n, _ := load(t, l, "n")
	ns, _ := h.Table().Get(n.Local["lib"])
	if ns.Kind != symbols.SymbolNamespace || ns.Target != "lib.lazy" {
		t.Fatalf("namespace = %+v", ns)
	}
	if _, ok := n.Lookup("A"); ok {
		t.Fatal("aliased wildcard binds only the namespace")
	}
}

func TestReexport(t *testing.T) {
	h, l := newHost(map[string]string{
		"lib": "export struct A {}",
		"mid": "export import {A} from \"lib\";",
		"top": "import {A} from \"mid\";",
	})
	top, ds := load(t, l, "top")
	if len(ds) != 0 {
		t.Fatalf("top: %+v", ds)
	}
	lib, _ := h.Get("lib")
	if top.Local["A"] != lib.Exported["A"] {
		t.Fatal("re-export must forward the declaring module's ID")
	}
}

func TestSecondEntryModule(t *testing.T) {
	_, l := newHost(map[string]string{
		"a": "main { }",
		"b": "main { }",
	})
	if _, ds := load(t, l, "a"); len(ds) != 0 {
		t.Fatalf("a: %+v", ds)
	}
	_, ds := load(t, l, "b")
	if d := only(t, ds, diag.SemTooManyEntryPoints); d.Message != `main already declared in "a.lazy"` {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestImplsAndInstances(t *testing.T) {
	h, l := newHost(map[string]string{
		"m": `impl Show for Box<Int> { }
#inline
export struct Box<T> { v: T }
static a: Box<Int> = 1;
static b: Box<Str> = 2;
`,
	})
	mod, ds := load(t, l, "m")
	if len(ds) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ds)
	}
	box, _ := h.Table().Get(mod.Exported["Box"])
	if box.Flags&symbols.SymbolFlagGeneric == 0 || len(box.TypeParams) != 1 || box.TypeParams[0] != "T" {
		t.Fatalf("box = %+v", box)
	}
	if len(box.Impls) != 1 || box.Impls[0].Capability != "Show" {
		t.Fatalf("impls = %+v", box.Impls)
	}
	if len(box.Instances) != 2 || box.Instances[0].Key() != "<Int>" || box.Instances[1].Key() != "<Str>" {
		t.Fatalf("instances = %+v", box.Instances)
	}
	stat, _ := h.Table().Get(mod.Local["a"])
	if stat.Kind != symbols.SymbolStatic {
		t.Fatalf("static = %+v", stat)
	}
}

func TestUnknownImplTarget(t *testing.T) {
	_, l := newHost(map[string]string{"m": "impl Show for Ghost { }"})
	_, ds := load(t, l, "m")
	if d := only(t, ds, diag.SemUnknownImplTarget); d.Message != "impl target 'Ghost' is not declared in this module" {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestSyntaxErrorsSkipModule(t *testing.T) {
	h, l := newHost(map[string]string{"m": "struct A {}\nstruct"})
	mod, ds := load(t, l, "m")
	if mod != nil || !diag.HasErrors(ds) {
		t.Fatalf("mod = %v, diags = %+v", mod, ds)
	}
	if h.Table().Len() != 0 {
		t.Fatal("no symbols for a file that failed to parse")
	}
}

func TestBuildModuleReturnsPartialModule(t *testing.T) {
	h, l := newHost(map[string]string{
		"m": "export struct A {}\nstatic A = 1;\nimport {Z} from \"missing\";\nstatic c = 2;\n",
	})
	src, err := h.Source("m")
	if err != nil {
		t.Fatal(err)
	}
	tree := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), h.FileSet(), lexer.New(src, lexer.Options{}), tree, parser.Options{})
	mod, ds := l.BuildModule(context.Background(), loader.Unit{Path: "m.lazy", Tree: tree, File: res.File, Source: src})

	if len(ds) != 2 || ds[0].Code != diag.SemDuplicateIdentifier || ds[1].Code != diag.IOModuleNotFound {
		t.Fatalf("diagnostics = %+v", ds)
	}
	if got := mod.Names(); len(got) != 2 || got[0] != "A" || got[1] != "c" {
		t.Fatalf("names = %v", got)
	}
	if got := mod.ExportedNames(); len(got) != 1 || got[0] != "A" {
		t.Fatalf("exported = %v", got)
	}
}
