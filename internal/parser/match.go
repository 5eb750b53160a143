package parser

import (
	"strings"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/token"
)

// parseMatch: match value { pat | pat [if guard] => body, ... }
func (p *Parser) parseMatch() (ast.ExprID, bool) {
	kw := p.advance()
	value, ok := p.parseNested()
	if !ok {
		return ast.NoExprID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{' to start match arms")
	if !ok {
		return ast.NoExprID, false
	}

	var arms []ast.MatchArm
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		arm, ok := p.parseMatchArm()
		if !ok {
			p.resyncUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		arms = append(arms, arm)
		if _, ok := p.eat(token.Comma); ok {
			continue
		}
		if !p.at(token.RBrace) && !p.isBlockLike(arm.Body) {
			p.errorf(diag.SynUnexpectedToken, p.diagSpan(), describe(p.lx.Peek()), "',' or '}' after match arm").Emit()
			p.resyncUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
		}
	}
	if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "match"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewMatch(kw.Span.Cover(p.lastSpan), value, arms), true
}

func (p *Parser) parseMatchArm() (ast.MatchArm, bool) {
	var arm ast.MatchArm
	for {
		// паттерн - операнд без бинарных операторов, иначе '|' съестся как "или"
		pat, ok := p.parseOperand()
		if !ok {
			return arm, false
		}
		p.checkMatchPattern(pat)
		arm.Patterns = append(arm.Patterns, pat)
		if _, ok := p.eat(token.Pipe); !ok {
			break
		}
	}
	arm.Span = p.exprSpan(arm.Patterns[0])

	if _, ok := p.eat(token.KwIf); ok {
		guard, ok := p.parseNested()
		if !ok {
			return arm, false
		}
		arm.Guard = guard
	}
	if _, ok := p.expect(token.FatArrow, diag.SynExpectFatArrow); !ok {
		return arm, false
	}
	body, ok := p.parseNested()
	if !ok {
		return arm, false
	}
	arm.Body = body
	arm.Span = arm.Span.Cover(p.exprSpan(body))
	return arm, true
}

// checkMatchPattern reports shapes other than literals, '_', tuples of
// literals, literal ranges and enum-variant paths.
func (p *Parser) checkMatchPattern(id ast.ExprID) {
	if p.isPatternAtom(id) {
		return
	}
	e := p.arenas.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprTuple:
		tuple, _ := p.arenas.Exprs.Tuple(id)
		ok := true
		for _, el := range tuple.Elements {
			ok = ok && p.isPatternAtom(el)
		}
		if ok {
			return
		}
	case ast.ExprRange:
		rng, _ := p.arenas.Exprs.Range(id)
		if (!rng.Start.IsValid() || p.isLiteral(rng.Start)) && (!rng.End.IsValid() || p.isLiteral(rng.End)) {
			return
		}
	case ast.ExprPath:
		if p.isPath(id) {
			return
		}
	case ast.ExprInvalid:
		return
	}
	what := strings.ToLower(e.Kind.String()) + " expression"
	p.errorf(diag.SynIncorrectMatchArm, e.Span, what).Emit()
}

func (p *Parser) isPatternAtom(id ast.ExprID) bool {
	if p.isLiteral(id) {
		return true
	}
	if ident, ok := p.arenas.Exprs.Ident(id); ok {
		return p.arenas.Name(ident.Name) == "_"
	}
	return false
}

// isLiteral: a literal, optionally negated.
func (p *Parser) isLiteral(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprLit:
		return true
	case ast.ExprUnary:
		un, _ := p.arenas.Exprs.Unary(id)
		if lit, ok := p.arenas.Exprs.Literal(un.Operand); ok && un.Op == ast.ExprUnaryNeg {
			return lit.Kind == ast.ExprLitInt || lit.Kind == ast.ExprLitFloat
		}
	}
	return false
}

// isPath: ident(:ident)+
func (p *Parser) isPath(id ast.ExprID) bool {
	for {
		e := p.arenas.Exprs.Get(id)
		if e == nil {
			return false
		}
		switch e.Kind {
		case ast.ExprIdent:
			return true
		case ast.ExprPath:
			path, _ := p.arenas.Exprs.Path(id)
			id = path.Target
		default:
			return false
		}
	}
}
