package loader

import (
	"context"
	"errors"
	"slices"
	"strings"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/host"
	"lazy/internal/source"
	"lazy/internal/symbols"
)

type chainKey struct{}

// chain returns the paths of the modules being built, outermost first.
func chain(ctx context.Context) []string {
	c, _ := ctx.Value(chainKey{}).([]string)
	return c
}

func withChain(ctx context.Context, path string) context.Context {
	c := chain(ctx)
	next := make([]string, len(c), len(c)+1)
	copy(next, c)
	return context.WithValue(ctx, chainKey{}, append(next, path))
}

// cycle renders the loop closed by importing target, or "" if there is none.
func cycle(ctx context.Context, target string) string {
	c := chain(ctx)
	i := slices.Index(c, target)
	if i < 0 {
		return ""
	}
	return strings.Join(append(slices.Clone(c[i:]), target), " -> ")
}

// crossCycle renders a loop found through loads running on other
// goroutines. via ends with a module on this goroutine's chain.
func crossCycle(ctx context.Context, via []string) string {
	c := chain(ctx)
	i := slices.Index(c, via[len(via)-1])
	if i < 0 {
		return strings.Join(via, " -> ")
	}
	return strings.Join(append(slices.Clone(c[i:]), via...), " -> ")
}

// IODiagnostic reports a file that could not be read at all. It carries no
// location.
func IODiagnostic(path string, err error) diag.Diagnostic {
	return ioDiagnostic(path, source.Span{}, err).WithoutHighlight()
}

func ioDiagnostic(path string, sp source.Span, err error) diag.Diagnostic {
	if errors.Is(err, host.ErrNotFound) {
		return diag.Errorf(diag.IOModuleNotFound, sp, path)
	}
	return diag.Errorf(diag.IOLoadFileError, sp, path, err)
}

func (mb *moduleBuilder) importStmt(id ast.StmtID, exported bool) {
	tree := mb.u.Tree
	d, _ := tree.Stmts.Import(id)
	target := mb.l.host.Resolve(d.Path)

	if loop := cycle(mb.ctx, target); loop != "" {
		diag.ReportTemplate(mb.rep, diag.SevError, diag.SemImportCycle, d.PathSpan, loop).Emit()
		return
	}
	dep, depDiags, err := mb.l.host.GetOrCreate(mb.ctx, target)
	var stuck *host.CycleError
	if errors.As(err, &stuck) {
		diag.ReportTemplate(mb.rep, diag.SevError, diag.SemImportCycle, d.PathSpan, crossCycle(mb.ctx, stuck.Via)).Emit()
		return
	}
	if err != nil {
		mb.rep.Report(ioDiagnostic(d.Path, d.PathSpan, err))
		return
	}
	if dep == nil {
		b := diag.ReportTemplate(mb.rep, diag.SevError, diag.SemDependencyFailed, d.PathSpan, d.Path)
		if first := firstError(depDiags); first != nil {
			b.WithNote(first.Primary, first.Message)
		}
		b.Emit()
		return
	}
	mb.mod.Imports = append(mb.mod.Imports, target)

	switch {
	case d.Wildcard && d.Alias != source.NoStringID:
		alias := tree.Name(d.Alias)
		if mb.duplicate(alias, d.AliasSpan) {
			return
		}
		ns := &symbols.Symbol{
			ID:     mb.l.host.AllocateSymbolID(),
			Name:   alias,
			Kind:   symbols.SymbolNamespace,
			Module: mb.u.Path,
			Span:   d.AliasSpan,
			Target: target,
		}
		if exported {
			ns.Flags |= symbols.SymbolFlagExported
		}
		mb.insert(ns)
		mb.bind(alias, ns.ID, d.AliasSpan, exported)
	case d.Wildcard:
		for _, name := range dep.ExportedNames() {
			sid, _ := dep.LookupExported(name)
			mb.bind(name, sid, d.PathSpan, exported)
		}
	default:
		for _, item := range d.Items {
			name := tree.Name(item.Name)
			sid, ok := dep.LookupExported(name)
			if !ok {
				diag.ReportTemplate(mb.rep, diag.SevError, diag.SemNotFoundFromModule, item.NameSpan, name, d.Path).Emit()
				continue
			}
			local, sp := name, item.NameSpan
			if item.Alias != source.NoStringID {
				local, sp = tree.Name(item.Alias), item.AliasSpan
			}
			mb.bind(local, sid, sp, exported)
		}
	}
}

func firstError(ds []diag.Diagnostic) *diag.Diagnostic {
	for i := range ds {
		if ds[i].Severity >= diag.SevError {
			return &ds[i]
		}
	}
	return nil
}
