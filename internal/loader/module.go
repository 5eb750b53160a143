package loader

import (
	"context"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/symbols"
)

type moduleBuilder struct {
	ctx context.Context
	l   *Loader
	u   Unit
	mod *symbols.Module
	rep *diag.SliceReporter
	// spans remembers where each local name was bound, for duplicate notes.
	spans map[string]source.Span
	impls []ast.StmtID
}

func (mb *moduleBuilder) build() {
	file := mb.u.Tree.Files.Get(mb.u.File)
	if file == nil {
		return
	}
	for _, id := range file.Stmts {
		mb.item(id)
	}
	if file.Main.IsValid() {
		mb.entry(file.Main)
	}
	for _, id := range mb.impls {
		mb.impl(id)
	}
	mb.instances()
}

// item unwraps attribute and export wrappers and dispatches.
func (mb *moduleBuilder) item(id ast.StmtID) {
	stmts := mb.u.Tree.Stmts
	exported := false
	for {
		st := stmts.Get(id)
		if st == nil {
			return
		}
		switch st.Kind {
		case ast.StmtAttr:
			d, _ := stmts.Attr(id)
			id = d.Inner
			continue
		case ast.StmtExport:
			d, _ := stmts.Export(id)
			exported = true
			id = d.Inner
			continue
		case ast.StmtImport:
			mb.importStmt(id, exported)
		case ast.StmtStruct, ast.StmtEnum, ast.StmtTypeAlias, ast.StmtStatic:
			mb.declare(id, st.Kind, exported)
		case ast.StmtImpl:
			mb.impls = append(mb.impls, id)
		}
		return
	}
}

var symbolKinds = map[ast.StmtKind]symbols.SymbolKind{
	ast.StmtStruct:    symbols.SymbolStruct,
	ast.StmtEnum:      symbols.SymbolEnum,
	ast.StmtTypeAlias: symbols.SymbolTypeAlias,
	ast.StmtStatic:    symbols.SymbolStatic,
}

func (mb *moduleBuilder) declare(id ast.StmtID, kind ast.StmtKind, exported bool) {
	tree := mb.u.Tree
	nameID, nameSpan, ok := tree.Stmts.DeclName(id)
	if !ok {
		return
	}
	name := tree.Name(nameID)
	if mb.duplicate(name, nameSpan) {
		return
	}

	sym := &symbols.Symbol{
		ID:     mb.l.host.AllocateSymbolID(),
		Name:   name,
		Kind:   symbolKinds[kind],
		Module: mb.u.Path,
		Span:   nameSpan,
	}
	for _, g := range tree.Stmts.DeclGenerics(id) {
		sym.TypeParams = append(sym.TypeParams, tree.Name(g.Name))
	}
	if len(sym.TypeParams) > 0 {
		sym.Flags |= symbols.SymbolFlagGeneric
	}
	if exported {
		sym.Flags |= symbols.SymbolFlagExported
	}
	mb.insert(sym)
	mb.bind(name, sym.ID, nameSpan, exported)
}

// insert adds sym to the shared table. IDs come from the host's allocator,
// so a rejection is a broken host.
func (mb *moduleBuilder) insert(sym *symbols.Symbol) {
	if err := mb.l.host.Table().Insert(sym); err != nil {
		panic(err)
	}
}

// duplicate reports name when it is already bound in this module.
func (mb *moduleBuilder) duplicate(name string, sp source.Span) bool {
	first, taken := mb.spans[name]
	if !taken {
		return false
	}
	diag.ReportTemplate(mb.rep, diag.SevError, diag.SemDuplicateIdentifier, sp, name).
		WithNote(first, "first declared here").
		Emit()
	return true
}

// bind makes id visible under name. Binding the same symbol twice, e.g.
// through two wildcard imports of one declaration, is not a conflict.
func (mb *moduleBuilder) bind(name string, id symbols.SymbolID, sp source.Span, exported bool) {
	if prev, ok := mb.mod.Lookup(name); ok && prev == id {
		if exported {
			mb.mod.Export(name)
		}
		return
	}
	if mb.duplicate(name, sp) {
		return
	}
	mb.mod.Bind(name, id)
	mb.spans[name] = sp
	if exported {
		mb.mod.Export(name)
	}
}

func (mb *moduleBuilder) entry(main ast.StmtID) {
	mb.mod.HasEntry = true
	owner, ok := mb.l.host.ClaimEntry(mb.u.Path)
	if ok {
		return
	}
	st := mb.u.Tree.Stmts.Get(main)
	// only the keyword; the body may span the whole file
	sp := st.Span
	sp.End = min(sp.End, sp.Start+uint32(len("main")))
	diag.ReportTemplate(mb.rep, diag.SevError, diag.SemTooManyEntryPoints, sp, owner).Emit()
}
