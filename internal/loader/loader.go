package loader

import (
	"context"
	"strconv"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/parser"
	"lazy/internal/source"
	"lazy/internal/symbols"
	"lazy/internal/trace"
)

// Host is what the loader needs from its environment; host.Host is the
// production implementation.
type Host interface {
	Resolve(path string) string
	Source(path string) (*source.File, error)
	FileSet() *source.FileSet
	GetOrCreate(ctx context.Context, path string) (*symbols.Module, []diag.Diagnostic, error)
	AllocateSymbolID() symbols.SymbolID
	Table() *symbols.Table
	ClaimEntry(path string) (string, bool)
}

type Options struct {
	// MaxErrors bounds the parser's error count per file (0 = unbounded).
	MaxErrors uint
	// Strings is shared by every tree the loader builds; nil allocates one
	// per file.
	Strings *source.Interner
}

// Loader builds modules through a Host. It is the host's Builder: cache
// misses in Host.GetOrCreate come back here.
type Loader struct {
	host Host
	opts Options
}

func New(h Host, opts Options) *Loader {
	return &Loader{host: h, opts: opts}
}

// Load returns the module at path, building it and its imports on first
// use. The diagnostics are those of path itself; imported modules keep
// their own.
func (l *Loader) Load(ctx context.Context, path string) (*symbols.Module, []diag.Diagnostic) {
	mod, diags, err := l.host.GetOrCreate(ctx, path)
	if err != nil {
		return nil, []diag.Diagnostic{IODiagnostic(path, err)}
	}
	return mod, diags
}

// Build parses path and builds its module. The module is returned only when
// neither parsing nor linking reported an error.
func (l *Loader) Build(ctx context.Context, path string) (*symbols.Module, []diag.Diagnostic) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, "module", trace.CurrentSpan(ctx).SpanID).WithExtra("path", path)
	ctx = trace.WithSpan(ctx, span)

	src, err := l.host.Source(path)
	if err != nil {
		span.End("unreadable")
		return nil, []diag.Diagnostic{IODiagnostic(path, err)}
	}

	reporter := &diag.SliceReporter{}
	b := ast.NewBuilder(ast.Hints{}, l.opts.Strings)
	lx := lexer.New(src, lexer.Options{Reporter: reporter})
	res := parser.ParseFile(ctx, l.host.FileSet(), lx, b, parser.Options{Reporter: reporter, MaxErrors: l.opts.MaxErrors})
	diags := reporter.Items()
	if diag.HasErrors(diags) {
		span.End("syntax errors")
		return nil, diags
	}

	mod, more := l.BuildModule(withChain(ctx, path), Unit{Path: path, Tree: b, File: res.File, Source: src})
	diags = append(diags, more...)
	span.WithExtra("symbols", strconv.Itoa(len(mod.Local)))
	if diag.HasErrors(more) {
		span.End("link errors")
		return nil, diags
	}
	span.End("")
	return mod, diags
}

// Unit is one parsed file ready for module building.
type Unit struct {
	Path   string
	Tree   *ast.Builder
	File   ast.FileID
	Source *source.File
}

// BuildModule walks the file's statements and returns the module with every
// binding that could be made, even when diagnostics were reported. Imports
// are loaded through the host.
func (l *Loader) BuildModule(ctx context.Context, u Unit) (*symbols.Module, []diag.Diagnostic) {
	mb := &moduleBuilder{
		ctx:   ctx,
		l:     l,
		u:     u,
		mod:   symbols.NewModule(u.Path),
		rep:   &diag.SliceReporter{},
		spans: make(map[string]source.Span),
	}
	mb.build()
	return mb.mod, mb.rep.Items()
}
