package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

// parseType: part ('+' part)*  - intersection of typings.
func (p *Parser) parseType() (ast.TypeID, bool) {
	first, ok := p.parseTypeSuffixed()
	if !ok {
		return ast.NoTypeID, false
	}
	if !p.at(token.Plus) {
		return first, true
	}
	parts := []ast.TypeID{first}
	for {
		if _, ok := p.eat(token.Plus); !ok {
			break
		}
		part, ok := p.parseTypeSuffixed()
		if !ok {
			return ast.NoTypeID, false
		}
		parts = append(parts, part)
	}
	sp := p.typeSpan(first).Cover(p.typeSpan(parts[len(parts)-1]))
	return p.arenas.Types.NewIntersection(sp, parts), true
}

// parseTypeSuffixed: prefix typing followed by any number of '?'.
func (p *Parser) parseTypeSuffixed() (ast.TypeID, bool) {
	typ, ok := p.parseTypePrefix()
	if !ok {
		return ast.NoTypeID, false
	}
	for p.at(token.Question) {
		q := p.advance()
		typ = p.arenas.Types.NewWrap(ast.TypeOptional, p.typeSpan(typ).Cover(q.Span), typ)
	}
	return typ, true
}

func (p *Parser) parseTypePrefix() (ast.TypeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.parseNamedType(tok)

	case token.KwImpl:
		kw := p.advance()
		inner, ok := p.parseTypeSuffixed()
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewWrap(ast.TypeImpl, kw.Span.Cover(p.typeSpan(inner)), inner), true

	case token.LBrace:
		return p.parseFieldListType()

	case token.LBracket:
		open := p.advance()
		var elems []ast.TypeID
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			elem, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, elem)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open.Span, "tuple type"); !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewTuple(open.Span.Cover(p.lastSpan), elems), true

	case token.LParen:
		return p.parseFnType(tok.Span, false)

	case token.KwFn:
		kw := p.advance()
		if p.flags&ctxAllowFnType == 0 {
			p.errorf(diag.SynFnTypeNotAllowed, kw.Span).Emit()
		}
		return p.parseFnType(kw.Span, true)

	default:
		p.errorf(diag.SynExpectType, p.diagSpan(), describe(tok)).Emit()
		return ast.NoTypeID, false
	}
}

// parseNamedType: name, m:name / m::name, and name<args>.
func (p *Parser) parseNamedType(first token.Token) (ast.TypeID, bool) {
	module := source.NoStringID
	name := p.arenas.Strings.Intern(first.Text)
	sp := first.Span
	if p.at(token.ColonColon) || (p.at(token.Colon) && p.pathColonAhead()) {
		module = name
		p.advance()
		n, nameSpan, ok := p.parseIdent("after module qualifier")
		if !ok {
			return ast.NoTypeID, false
		}
		name = n
		sp = sp.Cover(nameSpan)
	}
	typ := p.arenas.Types.NewNamed(sp, module, name)

	if !p.at(token.Lt) {
		return typ, true
	}
	open := p.advance()
	var args []ast.TypeID
	for !p.atAny(token.Gt, token.GtEq, token.EOF) {
		arg, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.closeAngle(open); !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.Types.NewGeneric(sp.Cover(p.lastSpan), typ, args), true
}

// parseFieldListType: { name: T, ... }
func (p *Parser) parseFieldListType() (ast.TypeID, bool) {
	open := p.lx.Peek()
	fields, ok := p.parseTypeFields()
	if !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.Types.NewFields(open.Span.Cover(p.lastSpan), fields), true
}

// parseTypeFields parses "{ name: T, ... }" including both braces.
// Shared by field-list typings and struct declarations.
func (p *Parser) parseTypeFields() ([]ast.TypeField, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{' to start field list")
	if !ok {
		return nil, false
	}
	var fields []ast.TypeField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, nameSpan, ok := p.parseIdent("for field name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "field name"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, ast.TypeField{Name: name, Span: nameSpan.Cover(p.typeSpan(typ)), Type: typ})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "field list"); !ok {
		return nil, false
	}
	return fields, true
}

// parseFnType: (T, name: U) -> R. With keyword set the caller has consumed
// 'fn' and the result is optional.
func (p *Parser) parseFnType(start source.Span, keyword bool) (ast.TypeID, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'(' to start function type")
	if !ok {
		return ast.NoTypeID, false
	}
	data := ast.TypeFnData{Keyword: keyword}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseFnTypeParam()
		if !ok {
			return ast.NoTypeID, false
		}
		data.Params = append(data.Params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open.Span, "function type parameters"); !ok {
		return ast.NoTypeID, false
	}

	if _, ok := p.eat(token.Arrow); ok {
		if data.Result, ok = p.parseType(); !ok {
			return ast.NoTypeID, false
		}
	} else if !keyword {
		p.errorf(diag.SynUnexpectedToken, p.diagSpan(), describe(p.lx.Peek()), "'->' after function type parameters").Emit()
		return ast.NoTypeID, false
	}
	return p.arenas.Types.NewFn(start.Cover(p.lastSpan), data), true
}

// parseFnTypeParam: "T" or "name: T". A leading identifier is a name only
// when a spaced ':' follows it; "m:T" stays a qualified type.
func (p *Parser) parseFnTypeParam() (ast.TypeFnParam, bool) {
	if !p.at(token.Ident) {
		typ, ok := p.parseType()
		return ast.TypeFnParam{Type: typ, Span: p.typeSpan(typ)}, ok
	}
	first := p.advance()
	if p.at(token.Colon) && !p.pathColonAhead() {
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.TypeFnParam{}, false
		}
		return ast.TypeFnParam{
			Name: p.arenas.Strings.Intern(first.Text),
			Span: first.Span.Cover(p.typeSpan(typ)),
			Type: typ,
		}, true
	}

	typ, ok := p.parseNamedType(first)
	if !ok {
		return ast.TypeFnParam{}, false
	}
	// named type may still carry suffixes: (Int?, A + B) -> R
	for p.at(token.Question) {
		q := p.advance()
		typ = p.arenas.Types.NewWrap(ast.TypeOptional, p.typeSpan(typ).Cover(q.Span), typ)
	}
	if p.at(token.Plus) {
		parts := []ast.TypeID{typ}
		for {
			if _, ok := p.eat(token.Plus); !ok {
				break
			}
			part, ok := p.parseTypeSuffixed()
			if !ok {
				return ast.TypeFnParam{}, false
			}
			parts = append(parts, part)
		}
		sp := p.typeSpan(typ).Cover(p.typeSpan(parts[len(parts)-1]))
		typ = p.arenas.Types.NewIntersection(sp, parts)
	}
	return ast.TypeFnParam{Type: typ, Span: p.typeSpan(typ)}, true
}
