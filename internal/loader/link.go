package loader

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/symbols"
)

// baseName returns the unqualified name of a named typing, or of the base
// of a generic one.
func (mb *moduleBuilder) baseName(id ast.TypeID) (string, bool) {
	types := mb.u.Tree.Types
	if g, ok := types.Generic(id); ok {
		id = g.Base
	}
	named, ok := types.NamedType(id)
	if !ok || named.Module != source.NoStringID {
		return "", false
	}
	return mb.u.Tree.Name(named.Name), true
}

// impl attaches "impl Cap for T" to T. Structural and qualified targets
// are left alone.
func (mb *moduleBuilder) impl(id ast.StmtID) {
	tree := mb.u.Tree
	d, _ := tree.Stmts.Impl(id)
	name, ok := mb.baseName(d.Target)
	if !ok {
		return
	}
	sid, found := mb.mod.Lookup(name)
	if !found {
		diag.ReportTemplate(mb.rep, diag.SevError, diag.SemUnknownImplTarget, tree.Types.Get(d.Target).Span, name).Emit()
		return
	}
	mb.l.host.Table().AddImpl(sid, symbols.ImplRef{
		Capability: mb.text(tree.Types.Get(d.Capability).Span),
		Module:     mb.u.Path,
		Span:       tree.Stmts.Get(id).Span,
	})
}

// instances records every Base<Args> whose base is a generic symbol visible
// here, keyed by the argument text.
func (mb *moduleBuilder) instances() {
	tree := mb.u.Tree
	table := mb.l.host.Table()
	tree.WalkFile(mb.u.File, func(n, _ ast.Node, _ int) bool {
		if n.Kind != ast.NodeType {
			return true
		}
		g, ok := tree.Types.Generic(ast.TypeID(n.ID))
		if !ok {
			return true
		}
		name, ok := mb.baseName(g.Base)
		if !ok {
			return true
		}
		sid, found := mb.mod.Lookup(name)
		if !found {
			return true
		}
		if sym, ok := table.Get(sid); !ok || sym.Flags&symbols.SymbolFlagGeneric == 0 {
			return true
		}
		inst := symbols.Instance{Module: mb.u.Path, Span: tree.Span(n)}
		for _, arg := range g.Args {
			inst.Args = append(inst.Args, mb.text(tree.Types.Get(arg).Span))
		}
		table.AddInstance(sid, inst)
		return true
	})
}

func (mb *moduleBuilder) text(sp source.Span) string {
	if mb.u.Source == nil {
		return ""
	}
	return mb.u.Source.Text(sp)
}
