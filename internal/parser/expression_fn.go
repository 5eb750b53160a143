package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

// parseFnLiteral: fn [<G>] (params) [-> Type] { body }
func (p *Parser) parseFnLiteral() (ast.ExprID, bool) {
	kw := p.advance()

	var data ast.ExprFnData
	if p.at(token.Lt) {
		generics, ok := p.parseGenericParams()
		if !ok {
			return ast.NoExprID, false
		}
		data.Generics = generics
	}

	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoExprID, false
	}
	data.Params = params

	if _, ok := p.eat(token.Arrow); ok {
		if data.Result, ok = p.parseType(); !ok {
			return ast.NoExprID, false
		}
	}

	// тело функции - новый контекст: break/continue снаружи не видны
	saved := p.flags
	p.flags &^= ctxInLoop | ctxStmtStart
	body, ok := p.parseBlock()
	p.flags = saved
	if !ok {
		return ast.NoExprID, false
	}
	data.Body = body
	return p.arenas.Exprs.NewFn(kw.Span.Cover(p.lastSpan), data), true
}

// parseFnParams: ( name[: T][= default], ...rest[: T] )
func (p *Parser) parseFnParams() ([]ast.FnParam, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'(' to start parameters")
	if !ok {
		return nil, false
	}
	var params []ast.FnParam
	for !p.at(token.RParen) && !p.at(token.EOF) {
		var param ast.FnParam
		restTok, isRest := p.eat(token.DotDotDot)
		name, nameSpan, ok := p.parseIdent("for parameter name")
		if !ok {
			return nil, false
		}
		param.Name, param.Span, param.Rest = name, nameSpan, isRest
		if isRest {
			param.Span = restTok.Span.Cover(nameSpan)
		}
		if _, ok := p.eat(token.Colon); ok {
			if param.Type, ok = p.parseType(); !ok {
				return nil, false
			}
		}
		if _, ok := p.eat(token.Assign); ok {
			if param.Default, ok = p.parseNested(); !ok {
				return nil, false
			}
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open.Span, "parameter list"); !ok {
		return nil, false
	}
	return params, true
}

// parseGenericParams: <T, U: Bound>. Each entry is a bare name; "T<X>"
// is reported and its argument list skipped.
func (p *Parser) parseGenericParams() ([]ast.GenericParam, bool) {
	open := p.advance()
	var params []ast.GenericParam
	for !p.atAny(token.Gt, token.GtEq, token.EOF) {
		name, nameSpan, ok := p.parseIdent("for generic parameter")
		if !ok {
			return nil, false
		}
		param := ast.GenericParam{Name: name, Span: nameSpan}
		if p.at(token.Lt) {
			nested := p.skipAngles()
			p.errorf(diag.SynNestedGenericParam, nested, p.arenas.Name(name)).Emit()
		}
		if _, ok := p.eat(token.Colon); ok {
			if param.Bound, ok = p.parseType(); !ok {
				return nil, false
			}
			param.Span = nameSpan.Cover(p.typeSpan(param.Bound))
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.closeAngle(open); !ok {
		return nil, false
	}
	return params, true
}

// skipAngles consumes a balanced <...> group and returns its span.
func (p *Parser) skipAngles() source.Span {
	open := p.advance()
	sp := open.Span
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.GtEq:
			tok, _ := p.lx.SplitOperator()
			p.lastSpan = tok.Span
			sp = sp.Cover(tok.Span)
			depth--
			continue
		case token.Shl:
			depth += 2
		}
		sp = sp.Cover(p.advance().Span)
	}
	return sp
}

// closeAngle expects '>' closing a generic list. A '>=' lookahead is split
// so that "Box<Int>= x" keeps its '='.
func (p *Parser) closeAngle(open token.Token) (token.Token, bool) {
	switch p.lx.Peek().Kind {
	case token.Gt:
		return p.advance(), true
	case token.GtEq:
		tok, _ := p.lx.SplitOperator()
		p.lastSpan = tok.Span
		return tok, true
	}
	return p.expectClose(token.Gt, diag.SynUnclosedAngle, open.Span, "generic list")
}
