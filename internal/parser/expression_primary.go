package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/token"
)

// parsePrimary consumes a leading token and dispatches on it.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	stmtStart := p.flags&ctxStmtStart != 0
	p.flags &^= ctxStmtStart

	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Invalid:
		// лексер уже отрепортил - просто дыра в дереве
		p.advance()
		return p.arenas.Exprs.NewInvalid(tok.Span), true

	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.arenas.Strings.Intern(tok.Text)), true

	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.BoolLit, token.NoneLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, literalData(tok)), true

	case token.TemplateLit:
		p.advance()
		return p.parseTemplate(tok), true

	case token.DotDot, token.DotDotEq:
		p.advance()
		end, ok := p.parseOperand()
		if !ok {
			return ast.NoExprID, false
		}
		sp := tok.Span.Cover(p.exprSpan(end))
		return p.arenas.Exprs.NewRange(sp, ast.NoExprID, end, tok.Kind == token.DotDotEq), true

	case token.DotDotDot:
		return p.parseWrapPrefix(ast.ExprSpread)

	case token.KwAwait:
		return p.parseWrapPrefix(ast.ExprAwait)

	case token.LParen:
		open := p.advance()
		inner, ok := p.parseNested()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open.Span, "parenthesized expression"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewWrap(ast.ExprGroup, open.Span.Cover(p.lastSpan), inner), true

	case token.LBracket:
		open := p.advance()
		elems, ok := p.parseExprList(token.RBracket)
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open.Span, "tuple"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewTuple(open.Span.Cover(p.lastSpan), elems), true

	case token.LBrace:
		return p.parseBlock()

	case token.KwLet, token.KwConst:
		return p.parseDecl()

	case token.KwFn:
		return p.parseFnLiteral()

	case token.KwIf:
		return p.parseIf()

	case token.KwWhile:
		return p.parseWhile()

	case token.KwFor:
		return p.parseFor()

	case token.KwMatch:
		return p.parseMatch()

	case token.KwNew:
		return p.parseNew()

	case token.KwReturn:
		return p.parseValueJump(ast.ExprReturn, true)

	case token.KwYield:
		if p.flags&ctxAllowYield == 0 {
			p.errorf(diag.SynYieldOutsideBlock, tok.Span).Emit()
		}
		return p.parseValueJump(ast.ExprYield, stmtStart)

	case token.KwBreak, token.KwContinue:
		p.advance()
		if p.flags&ctxInLoop == 0 {
			p.errorf(diag.SynJumpOutsideLoop, tok.Span, tok.Text).Emit()
		}
		kind := ast.ExprBreak
		if tok.Kind == token.KwContinue {
			kind = ast.ExprContinue
		}
		return p.arenas.Exprs.NewJump(kind, tok.Span), true

	default:
		p.errorf(diag.SynExpectExpression, p.diagSpan(), describe(tok)).Emit()
		return ast.NoExprID, false
	}
}

func literalData(tok token.Token) ast.ExprLiteralData {
	data := ast.ExprLiteralData{Raw: tok.Text}
	switch tok.Kind {
	case token.IntLit:
		data.Kind = ast.ExprLitInt
		data.Int = tok.Value.Int
	case token.FloatLit:
		data.Kind = ast.ExprLitFloat
		data.Float = tok.Value.Float
	case token.StringLit:
		data.Kind = ast.ExprLitString
		data.Str = tok.Value.Str
	case token.CharLit:
		data.Kind = ast.ExprLitChar
		data.Char = tok.Value.Char
	case token.BoolLit:
		data.Kind = ast.ExprLitBool
		data.Bool = tok.Value.Bool
	case token.NoneLit:
		data.Kind = ast.ExprLitNone
	}
	return data
}

// parseWrapPrefix: "...e" and "await e".
func (p *Parser) parseWrapPrefix(kind ast.ExprKind) (ast.ExprID, bool) {
	kw := p.advance()
	value, ok := p.parseOperand()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewWrap(kind, kw.Span.Cover(p.exprSpan(value)), value), true
}

// parseValueJump: return/yield with an optional value. A bare form is only
// accepted when allowBare is set (yield outside statement position needs a value).
func (p *Parser) parseValueJump(kind ast.ExprKind, allowBare bool) (ast.ExprID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if startsExpr(p.lx.Peek().Kind) {
		var ok bool
		if value, ok = p.parseNested(); !ok {
			return ast.NoExprID, false
		}
	} else if !allowBare {
		p.errorf(diag.SynExpectExpression, p.diagSpan(), describe(p.lx.Peek())).Emit()
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewWrap(kind, kw.Span.Cover(p.lastSpan), value), true
}

// parseNew: new Target { field: value, shorthand, ... }
func (p *Parser) parseNew() (ast.ExprID, bool) {
	kw := p.advance()
	target, ok := p.parseType()
	if !ok {
		return ast.NoExprID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{' after new target")
	if !ok {
		return ast.NoExprID, false
	}
	fields, ok := p.parseFieldInits(open)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewNew(kw.Span.Cover(p.lastSpan), target, fields), true
}

// parseFieldInits parses "name: e, name, ..." up to and including '}'.
// Used by new-expressions and impl bodies.
func (p *Parser) parseFieldInits(open token.Token) ([]ast.FieldInit, bool) {
	var fields []ast.FieldInit
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, nameSpan, ok := p.parseIdent("for field name")
		if !ok {
			p.resyncUntil(token.Comma, token.RBrace)
			if _, ok := p.eat(token.Comma); ok {
				continue
			}
			break
		}
		field := ast.FieldInit{Name: name, NameSpan: nameSpan}
		if _, ok := p.eat(token.Colon); ok {
			value, ok := p.parseNested()
			if !ok {
				p.resyncUntil(token.Comma, token.RBrace)
				field.Value = p.arenas.Exprs.NewInvalid(nameSpan.Cover(p.lastSpan))
			} else {
				field.Value = value
			}
		} else {
			field.Value = p.arenas.Exprs.NewIdent(nameSpan, name)
		}
		fields = append(fields, field)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "field list"); !ok {
		return fields, false
	}
	return fields, true
}
