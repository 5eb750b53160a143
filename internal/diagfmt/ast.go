package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lazy/internal/ast"
	"lazy/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Detail   string          `json:"detail,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTTree печатает дерево файла:
//
//	File main.lazy
//	├─ Stmt.Static x @1:1
//	│  └─ Expr.Lit 1 @1:12
//	└─ Stmt.Main @2:1
func FormatASTTree(w io.Writer, b *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := b.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("ast file %d not found", fileID)
	}
	var sb strings.Builder
	sb.WriteString("File")
	if fs != nil && int(file.Span.File) < fs.Len() {
		sb.WriteString(" " + fs.Get(file.Span.File).Path)
	}
	sb.WriteByte('\n')

	var node func(n ast.Node, prefix string, last bool)
	node = func(n ast.Node, prefix string, last bool) {
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + b.Label(n))
		if d := nodeDetail(b, n); d != "" {
			sb.WriteString(" " + d)
		}
		if fs != nil {
			sp := b.Span(n)
			if int(sp.File) < fs.Len() {
				start, _ := fs.Resolve(sp)
				fmt.Fprintf(&sb, " @%d:%d", start.Line, start.Col)
			}
		}
		sb.WriteByte('\n')
		kids := b.Children(n)
		for i, c := range kids {
			node(c, prefix+next, i == len(kids)-1)
		}
	}
	for i, st := range file.Stmts {
		node(ast.StmtNode(st), "", i == len(file.Stmts)-1)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// BuildASTJSON собирает дерево файла вложенными узлами.
func BuildASTJSON(b *ast.Builder, fileID ast.FileID) (ASTNodeOutput, error) {
	file := b.Files.Get(fileID)
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("ast file %d not found", fileID)
	}
	var build func(n ast.Node) ASTNodeOutput
	build = func(n ast.Node) ASTNodeOutput {
		out := ASTNodeOutput{Type: b.Label(n), Detail: nodeDetail(b, n), Span: b.Span(n)}
		for _, c := range b.Children(n) {
			out.Children = append(out.Children, build(c))
		}
		return out
	}
	root := ASTNodeOutput{Type: "File", Span: file.Span}
	for _, st := range file.Stmts {
		root.Children = append(root.Children, build(ast.StmtNode(st)))
	}
	return root, nil
}

// FormatASTJSON выводит дерево файла как JSON.
func FormatASTJSON(w io.Writer, b *ast.Builder, fileID ast.FileID) error {
	root, err := BuildASTJSON(b, fileID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

// nodeDetail is the short payload shown next to a node label.
func nodeDetail(b *ast.Builder, n ast.Node) string {
	switch n.Kind {
	case ast.NodeStmt:
		id := ast.StmtID(n.ID)
		if name, _, ok := b.Stmts.DeclName(id); ok {
			return b.Name(name)
		}
		if imp, ok := b.Stmts.Import(id); ok {
			return strconv.Quote(imp.Path)
		}
		if attr, ok := b.Stmts.Attr(id); ok {
			return "#" + b.Name(attr.Name)
		}
	case ast.NodeExpr:
		id := ast.ExprID(n.ID)
		x := b.Exprs
		if d, ok := x.Ident(id); ok {
			return b.Name(d.Name)
		}
		if d, ok := x.Literal(id); ok {
			return d.Raw
		}
		if d, ok := x.Binary(id); ok {
			return d.Op.String()
		}
		if d, ok := x.Unary(id); ok {
			return d.Op.String()
		}
		if d, ok := x.Member(id); ok {
			if d.Arrow {
				return "->" + b.Name(d.Name)
			}
			return "." + b.Name(d.Name)
		}
		if d, ok := x.Path(id); ok {
			return "::" + b.Name(d.Name)
		}
		if d, ok := x.Decl(id); ok {
			if d.Const {
				return "const"
			}
			return "let"
		}
	case ast.NodeType:
		if d, ok := b.Types.NamedType(ast.TypeID(n.ID)); ok {
			if d.Module != source.NoStringID {
				return b.Name(d.Module) + "::" + b.Name(d.Name)
			}
			return b.Name(d.Name)
		}
	}
	return ""
}
