package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/token"
)

// parseDecl: (let|const) pattern [: Type] [= value]
func (p *Parser) parseDecl() (ast.ExprID, bool) {
	kw := p.advance()
	isConst := kw.Kind == token.KwConst

	pattern, ok := p.parsePattern()
	if !ok {
		return ast.NoExprID, false
	}

	typ, ok := p.parseAnnotation(p.arenas.Name(pattern.Name))
	if !ok {
		return ast.NoExprID, false
	}

	value := ast.NoExprID
	if _, ok := p.eat(token.Assign); ok {
		if value, ok = p.parseNested(); !ok {
			return ast.NoExprID, false
		}
	} else if isConst {
		name := p.arenas.Name(pattern.Name)
		if pattern.Kind != ast.PatternIdent {
			name = "pattern"
		}
		p.errorf(diag.SynConstNeedsValue, pattern.Span, name).Emit()
	}

	return p.arenas.Exprs.NewDecl(kw.Span.Cover(p.lastSpan), ast.ExprDeclData{
		Const:   isConst,
		Pattern: pattern,
		Type:    typ,
		Value:   value,
	}), true
}

// parseAnnotation parses an optional ": Type"; every further ": Type" is
// reported as a duplicate and dropped.
func (p *Parser) parseAnnotation(owner string) (ast.TypeID, bool) {
	typ := ast.NoTypeID
	for p.at(token.Colon) {
		colon := p.advance()
		t, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if typ.IsValid() {
			if owner == "" {
				owner = "binding"
			}
			p.errorf(diag.SynDuplicateAnnotation, colon.Span.Cover(p.typeSpan(t)), owner).
				WithNote(p.typeSpan(typ), "first annotation").
				Emit()
			continue
		}
		typ = t
	}
	return typ, true
}

// parsePattern: name | [a, b, ...rest] | {a, b: pattern}
func (p *Parser) parsePattern() (ast.Pattern, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return ast.Pattern{Kind: ast.PatternIdent, Span: tok.Span, Name: p.arenas.Strings.Intern(tok.Text)}, true

	case token.LBracket:
		open := p.advance()
		pat := ast.Pattern{Kind: ast.PatternTuple}
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			if _, ok := p.eat(token.DotDotDot); ok {
				name, _, ok := p.parseIdent("after '...' in pattern")
				if !ok {
					return ast.Pattern{}, false
				}
				pat.Rest = name
				p.eat(token.Comma)
				break
			}
			elem, ok := p.parsePattern()
			if !ok {
				return ast.Pattern{}, false
			}
			pat.Elems = append(pat.Elems, elem)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open.Span, "tuple pattern"); !ok {
			return ast.Pattern{}, false
		}
		pat.Span = open.Span.Cover(p.lastSpan)
		return pat, true

	case token.LBrace:
		open := p.advance()
		pat := ast.Pattern{Kind: ast.PatternStruct}
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			name, nameSpan, ok := p.parseIdent("for destructured field")
			if !ok {
				return ast.Pattern{}, false
			}
			field := ast.PatternField{Name: name, Span: nameSpan}
			if _, ok := p.eat(token.Colon); ok {
				if field.Binding, ok = p.parsePattern(); !ok {
					return ast.Pattern{}, false
				}
				field.Span = nameSpan.Cover(field.Binding.Span)
			} else {
				field.Binding = ast.Pattern{Kind: ast.PatternIdent, Span: nameSpan, Name: name}
			}
			pat.Fields = append(pat.Fields, field)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "struct pattern"); !ok {
			return ast.Pattern{}, false
		}
		pat.Span = open.Span.Cover(p.lastSpan)
		return pat, true

	default:
		p.errorf(diag.SynBadPattern, p.diagSpan(), describe(tok)).Emit()
		return ast.Pattern{}, false
	}
}
