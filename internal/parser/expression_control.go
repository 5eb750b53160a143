package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/token"
)

// parseBlock: '{' item* [tail] '}'. Items end with ';' unless block-like;
// the last item without ';' becomes the block's value.
func (p *Parser) parseBlock() (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{'")
	if !ok {
		return ast.NoExprID, false
	}

	saved := p.flags
	defer func() { p.flags = saved }()

	var items []ast.ExprID
	tail := ast.NoExprID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if _, ok := p.eat(token.Semicolon); ok {
			continue
		}
		p.flags = saved | ctxAllowYield | ctxStmtStart
		item, ok := p.parseExpr()
		p.flags = saved
		if !ok {
			// ошибка в выражении - восстанавливаемся до ';' или '}'
			p.resyncUntil(token.Semicolon, token.RBrace)
			p.eat(token.Semicolon)
			continue
		}
		if _, ok := p.eat(token.Semicolon); ok {
			items = append(items, item)
			continue
		}
		if p.at(token.RBrace) {
			tail = item
			break
		}
		items = append(items, item)
		if !p.isBlockLike(item) {
			what := "expression"
			if e := p.arenas.Exprs.Get(item); e != nil && e.Kind == ast.ExprDecl {
				what = "declaration"
			}
			p.expectSemicolon(what)
		}
	}

	if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "block"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBlock(open.Span.Cover(p.lastSpan), items, tail), true
}

// parseLoopBody parses a block with break/continue allowed.
func (p *Parser) parseLoopBody() (ast.ExprID, bool) {
	saved := p.flags
	p.flags |= ctxInLoop
	defer func() { p.flags = saved }()
	return p.parseBlock()
}

// parseIf: if cond { } [else if ... | else { }]
func (p *Parser) parseIf() (ast.ExprID, bool) {
	kw := p.advance()
	cond, ok := p.parseNested()
	if !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	els := ast.NoExprID
	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
	return p.arenas.Exprs.NewIf(kw.Span.Cover(p.lastSpan), cond, then, els), true
}

func (p *Parser) parseWhile() (ast.ExprID, bool) {
	kw := p.advance()
	cond, ok := p.parseNested()
	if !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewWhile(kw.Span.Cover(p.lastSpan), cond, body), true
}

// parseFor: for x in iter { }
func (p *Parser) parseFor() (ast.ExprID, bool) {
	kw := p.advance()
	name, nameSpan, ok := p.parseIdent("after 'for'")
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynExpectIn); !ok {
		return ast.NoExprID, false
	}
	iter, ok := p.parseNested()
	if !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseLoopBody()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewFor(kw.Span.Cover(p.lastSpan), ast.ExprForData{
		Var:     name,
		VarSpan: nameSpan,
		Iter:    iter,
		Body:    body,
	}), true
}
