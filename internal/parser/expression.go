package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
// Возвращает ExprID и флаг успеха
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseOperand()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parseBinary(left, precNone)
}

// parseBinary - precedence climbing: consumes operators binding tighter than
// minPrec; the right operand is climbed at the operator's own precedence, so
// equal precedence associates to the left.
func (p *Parser) parseBinary(left ast.ExprID, minPrec int) (ast.ExprID, bool) {
	for {
		entry, isOp := binaryOps[p.lx.Peek().Kind]
		if !isOp || entry.prec <= minPrec {
			return left, true
		}
		p.advance()

		operand, ok := p.parseOperand()
		if !ok {
			return ast.NoExprID, false
		}
		right, ok := p.parseBinary(operand, entry.prec)
		if !ok {
			return ast.NoExprID, false
		}

		sp := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(sp, entry.op, left, right)
	}
}

// parseOperand - unary prefixes, then a primary with its suffix chain.
func (p *Parser) parseOperand() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	if op, ok := unaryOp(tok.Kind); ok {
		p.flags &^= ctxStmtStart
		p.advance()
		operand, ok := p.parseOperand()
		if !ok {
			return ast.NoExprID, false
		}
		sp := tok.Span.Cover(p.exprSpan(operand))
		return p.arenas.Exprs.NewUnary(sp, op, operand), true
	}

	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parseSuffix(expr)
}

// parseSuffix жадно навешивает постфиксы, пока они есть.
func (p *Parser) parseSuffix(expr ast.ExprID) (ast.ExprID, bool) {
	for {
		switch p.lx.Peek().Kind {
		case token.Dot, token.Arrow:
			opTok := p.advance()
			name, nameSpan, ok := p.parseIdent("after '" + opTok.Text + "'")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewMember(p.exprSpan(expr).Cover(nameSpan), ast.ExprMemberData{
				Target:   expr,
				Name:     name,
				NameSpan: nameSpan,
				Arrow:    opTok.Kind == token.Arrow,
			})

		case token.LBracket:
			open := p.advance()
			index, ok := p.parseNested()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open.Span, "index"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewIndex(p.exprSpan(expr).Cover(p.lastSpan), expr, index)

		case token.LParen:
			open := p.advance()
			args, ok := p.parseExprList(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open.Span, "call arguments"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewCall(p.exprSpan(expr).Cover(p.lastSpan), expr, args)

		case token.Question:
			q := p.advance()
			expr = p.arenas.Exprs.NewWrap(ast.ExprOptional, p.exprSpan(expr).Cover(q.Span), expr)

		case token.DotDot, token.DotDotEq:
			opTok := p.advance()
			end := ast.NoExprID
			if k := p.lx.Peek().Kind; startsExpr(k) && k != token.LBrace {
				var ok bool
				if end, ok = p.parseOperand(); !ok {
					return ast.NoExprID, false
				}
			}
			sp := p.exprSpan(expr).Cover(p.lastSpan)
			return p.arenas.Exprs.NewRange(sp, expr, end, opTok.Kind == token.DotDotEq), true

		case token.Colon, token.ColonColon:
			if !p.pathColonAhead() {
				return expr, true
			}
			p.advance()
			name, nameSpan, ok := p.parseIdent("after ':' in module path")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewPath(p.exprSpan(expr).Cover(nameSpan), ast.ExprPathData{
				Target:   expr,
				Name:     name,
				NameSpan: nameSpan,
			})

		default:
			return expr, true
		}
	}
}

// pathColonAhead отличает "a:b" от ':' аннотаций и полей: a single ':'
// only continues a path when glued to both neighbours; '::' always does.
func (p *Parser) pathColonAhead() bool {
	tok := p.lx.Peek()
	if tok.Kind == token.ColonColon {
		return true
	}
	if !glued(p.lastSpan, tok.Span) {
		return false
	}
	next := p.byteAt(tok.Span.End)
	return next == '_' || (next|0x20 >= 'a' && next|0x20 <= 'z')
}

// parseNested parses a full expression with statement-level flags cleared.
func (p *Parser) parseNested() (ast.ExprID, bool) {
	saved := p.flags
	p.flags &^= ctxStmtStart
	defer func() { p.flags = saved }()
	return p.parseExpr()
}

// parseExprList parses "e, e, ..." up to (not including) the closer.
// A trailing comma is allowed.
func (p *Parser) parseExprList(closer token.Kind) ([]ast.ExprID, bool) {
	var items []ast.ExprID
	for !p.at(closer) && !p.at(token.EOF) {
		item, ok := p.parseNested()
		if !ok {
			return nil, false
		}
		items = append(items, item)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return items, true
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

func (p *Parser) typeSpan(id ast.TypeID) source.Span {
	if t := p.arenas.Types.Get(id); t != nil {
		return t.Span
	}
	return p.lastSpan
}

// isBlockLike - выражения, после которых ';' не обязателен.
func (p *Parser) isBlockLike(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprBlock, ast.ExprIf, ast.ExprWhile, ast.ExprFor, ast.ExprMatch:
		return true
	default:
		return false
	}
}
