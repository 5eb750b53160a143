package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/token"
)

// parseImportItem:
//
//	import {a, b as c} from "path";
//	import * from "path" [as alias];
func (p *Parser) parseImportItem() (ast.StmtID, bool) {
	kw := p.advance()
	var data ast.StmtImportData

	switch {
	case p.at(token.Star):
		p.advance()
		data.Wildcard = true
	case p.at(token.LBrace):
		open := p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			name, nameSpan, ok := p.parseIdent("in import list")
			if !ok {
				return ast.NoStmtID, false
			}
			item := ast.ImportItem{Name: name, NameSpan: nameSpan}
			if _, ok := p.eat(token.KwAs); ok {
				if item.Alias, item.AliasSpan, ok = p.parseIdent("after 'as'"); !ok {
					return ast.NoStmtID, false
				}
			}
			data.Items = append(data.Items, item)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "import list"); !ok {
			return ast.NoStmtID, false
		}
	default:
		p.errorf(diag.SynUnexpectedToken, p.diagSpan(), describe(p.lx.Peek()), "'{' or '*' after 'import'").Emit()
		return ast.NoStmtID, false
	}

	if _, ok := p.expect(token.KwFrom, diag.SynImportExpectFrom); !ok {
		return ast.NoStmtID, false
	}
	pathTok, ok := p.expect(token.StringLit, diag.SynImportExpectPath)
	if !ok {
		return ast.NoStmtID, false
	}
	data.Path = pathTok.Value.Str
	data.PathSpan = pathTok.Span

	if asTok, hasAlias := p.eat(token.KwAs); hasAlias {
		alias, aliasSpan, ok := p.parseIdent("after 'as'")
		if !ok {
			return ast.NoStmtID, false
		}
		if !data.Wildcard {
			p.errorf(diag.SynImportAliasNotAllowed, asTok.Span.Cover(aliasSpan)).Emit()
		} else {
			data.Alias, data.AliasSpan = alias, aliasSpan
		}
	}

	sp := kw.Span.Cover(p.lastSpan)
	p.endItem("import")
	return p.arenas.Stmts.NewImport(sp, data), true
}
