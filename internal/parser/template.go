package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/token"
)

// parseTemplate re-lexes every ${...} of a template token in place and parses
// it as a full expression. Parts keep the lexer's text offsets.
func (p *Parser) parseTemplate(tok token.Token) ast.ExprID {
	parts := make([]ast.TemplatePart, 0, len(tok.Value.Interpolations))
	for _, interp := range tok.Value.Interpolations {
		parts = append(parts, ast.TemplatePart{
			Offset: interp.Offset,
			Value:  p.parseInterpolation(interp),
		})
	}
	return p.arenas.Exprs.NewTemplate(tok.Span, tok.Value.Str, parts)
}

func (p *Parser) parseInterpolation(interp token.Interpolation) ast.ExprID {
	savedLx, savedLast, savedFlags := p.lx, p.lastSpan, p.flags
	defer func() {
		p.lx, p.lastSpan, p.flags = savedLx, savedLast, savedFlags
	}()

	p.lx = lexer.NewRange(savedLx.File(), interp.Span, lexer.Options{Reporter: p.opts.Reporter})
	p.lastSpan = interp.Span.AtStart()
	p.flags &^= ctxStmtStart

	if p.at(token.EOF) {
		p.errorf(diag.SynExpectExpression, interp.Span, "empty interpolation").Emit()
		return p.arenas.Exprs.NewInvalid(interp.Span)
	}
	expr, ok := p.parseExpr()
	if !ok {
		return p.arenas.Exprs.NewInvalid(interp.Span)
	}
	if !p.at(token.EOF) {
		extra := p.lx.Peek()
		p.errorf(diag.SynTrailingInterpolation, extra.Span, describe(extra)).Emit()
	}
	return expr
}
