package ast

import (
	"lazy/internal/source"
)

// NodeKind selects which family a Node refers to.
type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeStmt
	NodeExpr
	NodeType
)

// Node is a family-tagged reference to any tree node.
type Node struct {
	Kind NodeKind
	ID   uint32
}

func StmtNode(id StmtID) Node { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node { return Node{Kind: NodeExpr, ID: uint32(id)} }
func TypeNode(id TypeID) Node { return Node{Kind: NodeType, ID: uint32(id)} }

// Span returns the node's span, or a zero span for unknown nodes.
func (b *Builder) Span(n Node) source.Span {
	switch n.Kind {
	case NodeStmt:
		if st := b.Stmts.Get(StmtID(n.ID)); st != nil {
			return st.Span
		}
	case NodeExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return e.Span
		}
	case NodeType:
		if t := b.Types.Get(TypeID(n.ID)); t != nil {
			return t.Span
		}
	}
	return source.Span{}
}

// Label is a short kind name used by tree dumps.
func (b *Builder) Label(n Node) string {
	switch n.Kind {
	case NodeStmt:
		if st := b.Stmts.Get(StmtID(n.ID)); st != nil {
			return "Stmt." + st.Kind.String()
		}
	case NodeExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return "Expr." + e.Kind.String()
		}
	case NodeType:
		if t := b.Types.Get(TypeID(n.ID)); t != nil {
			return "Type." + t.Kind.String()
		}
	}
	return "?"
}

// Children returns the direct children of n in source order. Absent optional
// children (NoExprID, NoTypeID) are skipped.
func (b *Builder) Children(n Node) []Node {
	var out []Node
	expr := func(id ExprID) {
		if id.IsValid() {
			out = append(out, ExprNode(id))
		}
	}
	typ := func(id TypeID) {
		if id.IsValid() {
			out = append(out, TypeNode(id))
		}
	}
	stmt := func(id StmtID) {
		if id.IsValid() {
			out = append(out, StmtNode(id))
		}
	}
	generics := func(gs []GenericParam) {
		for _, g := range gs {
			typ(g.Bound)
		}
	}

	switch n.Kind {
	case NodeStmt:
		b.stmtChildren(StmtID(n.ID), expr, typ, stmt, generics)
	case NodeExpr:
		b.exprChildren(ExprID(n.ID), expr, typ)
	case NodeType:
		b.typeChildren(TypeID(n.ID), typ)
	}
	return out
}

func (b *Builder) stmtChildren(id StmtID, expr func(ExprID), typ func(TypeID), stmt func(StmtID), generics func([]GenericParam)) {
	st := b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case StmtStruct:
		d, _ := b.Stmts.Struct(id)
		generics(d.Generics)
		for _, f := range d.Fields {
			typ(f.Type)
		}
	case StmtEnum:
		d, _ := b.Stmts.Enum(id)
		generics(d.Generics)
		for _, v := range d.Variants {
			typ(v.Payload)
		}
	case StmtTypeAlias:
		d, _ := b.Stmts.TypeAlias(id)
		generics(d.Generics)
		typ(d.Type)
	case StmtStatic:
		d, _ := b.Stmts.Static(id)
		typ(d.Type)
		expr(d.Value)
	case StmtMain:
		d, _ := b.Stmts.Main(id)
		expr(d.Body)
	case StmtExport:
		d, _ := b.Stmts.Export(id)
		stmt(d.Inner)
	case StmtImpl:
		d, _ := b.Stmts.Impl(id)
		typ(d.Capability)
		typ(d.Target)
		for _, f := range d.Fields {
			expr(f.Value)
		}
	case StmtAttr:
		d, _ := b.Stmts.Attr(id)
		for _, a := range d.Args {
			expr(a)
		}
		stmt(d.Inner)
	}
}

func (b *Builder) exprChildren(id ExprID, expr func(ExprID), typ func(TypeID)) {
	e := b.Exprs.Get(id)
	if e == nil {
		return
	}
	x := b.Exprs
	switch e.Kind {
	case ExprTemplate:
		d, _ := x.Template(id)
		for _, part := range d.Parts {
			expr(part.Value)
		}
	case ExprUnary:
		d, _ := x.Unary(id)
		expr(d.Operand)
	case ExprBinary:
		d, _ := x.Binary(id)
		expr(d.Left)
		expr(d.Right)
	case ExprGroup, ExprAwait, ExprSpread, ExprOptional, ExprReturn, ExprYield:
		d, _ := x.Wrap(id)
		expr(d.Value)
	case ExprTuple:
		d, _ := x.Tuple(id)
		for _, el := range d.Elements {
			expr(el)
		}
	case ExprBlock:
		d, _ := x.Block(id)
		for _, s := range d.Stmts {
			expr(s)
		}
		expr(d.Tail)
	case ExprDecl:
		d, _ := x.Decl(id)
		typ(d.Type)
		expr(d.Value)
	case ExprFn:
		d, _ := x.Fn(id)
		for _, g := range d.Generics {
			typ(g.Bound)
		}
		for _, prm := range d.Params {
			typ(prm.Type)
			expr(prm.Default)
		}
		typ(d.Result)
		expr(d.Body)
	case ExprIf:
		d, _ := x.If(id)
		expr(d.Cond)
		expr(d.Then)
		expr(d.Else)
	case ExprWhile:
		d, _ := x.While(id)
		expr(d.Cond)
		expr(d.Body)
	case ExprFor:
		d, _ := x.For(id)
		expr(d.Iter)
		expr(d.Body)
	case ExprMatch:
		d, _ := x.Match(id)
		expr(d.Value)
		for _, arm := range d.Arms {
			for _, pat := range arm.Patterns {
				expr(pat)
			}
			expr(arm.Guard)
			expr(arm.Body)
		}
	case ExprNew:
		d, _ := x.New(id)
		typ(d.Target)
		for _, f := range d.Fields {
			expr(f.Value)
		}
	case ExprRange:
		d, _ := x.Range(id)
		expr(d.Start)
		expr(d.End)
	case ExprMember:
		d, _ := x.Member(id)
		expr(d.Target)
	case ExprPath:
		d, _ := x.Path(id)
		expr(d.Target)
	case ExprIndex:
		d, _ := x.Index(id)
		expr(d.Target)
		expr(d.Index)
	case ExprCall:
		d, _ := x.Call(id)
		expr(d.Target)
		for _, a := range d.Args {
			expr(a)
		}
	}
}

func (b *Builder) typeChildren(id TypeID, typ func(TypeID)) {
	t := b.Types.Get(id)
	if t == nil {
		return
	}
	switch t.Kind {
	case TypeGeneric:
		d, _ := b.Types.Generic(id)
		typ(d.Base)
		for _, a := range d.Args {
			typ(a)
		}
	case TypeFields:
		d, _ := b.Types.FieldList(id)
		for _, f := range d.Fields {
			typ(f.Type)
		}
	case TypeTuple:
		d, _ := b.Types.Tuple(id)
		for _, el := range d.Elems {
			typ(el)
		}
	case TypeFn:
		d, _ := b.Types.Fn(id)
		for _, prm := range d.Params {
			typ(prm.Type)
		}
		typ(d.Result)
	case TypeOptional, TypeImpl:
		d, _ := b.Types.Wrap(id)
		typ(d.Inner)
	case TypeIntersection:
		d, _ := b.Types.Intersection(id)
		for _, part := range d.Parts {
			typ(part)
		}
	}
}

// Walk visits n and its subtree depth-first, pre-order. Returning false from
// visit skips the node's children.
func (b *Builder) Walk(n Node, visit func(n, parent Node, depth int) bool) {
	b.walk(n, Node{}, 0, visit)
}

func (b *Builder) walk(n, parent Node, depth int, visit func(n, parent Node, depth int) bool) {
	if !visit(n, parent, depth) {
		return
	}
	for _, c := range b.Children(n) {
		b.walk(c, n, depth+1, visit)
	}
}

// WalkFile walks every top-level statement of a file.
func (b *Builder) WalkFile(id FileID, visit func(n, parent Node, depth int) bool) {
	f := b.Files.Get(id)
	if f == nil {
		return
	}
	for _, st := range f.Stmts {
		b.Walk(StmtNode(st), visit)
	}
}
