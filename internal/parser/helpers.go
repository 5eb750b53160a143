package parser

import (
	"bytes"

	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the lookahead if it has kind k.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// diagSpan - лучший span для диагностики: at EOF point just past the last
// consumed token instead of the end of the file.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.AtEnd()
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим code (filled with
// args) и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, args ...any) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.errorf(code, sp, args...).Emit()
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectClose expects a closing delimiter and points a note at its opener.
func (p *Parser) expectClose(k token.Kind, code diag.Code, open source.Span, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.errorf(code, sp, what).WithNote(open, "opened here").Emit()
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectSemicolon reports a missing ';' right after the previous token.
func (p *Parser) expectSemicolon(after string) bool {
	if _, ok := p.eat(token.Semicolon); ok {
		return true
	}
	p.errorf(diag.SynExpectSemicolon, p.lastSpan.AtEnd(), after).Emit()
	return false
}

// endItem terminates a top-level statement: ';' may be left out when the
// statement ends its line or the file.
func (p *Parser) endItem(what string) {
	if _, ok := p.eat(token.Semicolon); ok {
		return
	}
	if p.at(token.EOF) || !p.sameLine(p.lastSpan, p.lx.Peek().Span) {
		return
	}
	p.errorf(diag.SynExpectSemicolon, p.lastSpan.AtEnd(), what).Emit()
}

// errorf starts an error report; nil (a no-op builder) once the error limit
// is reached.
func (p *Parser) errorf(code diag.Code, sp source.Span, args ...any) *diag.ReportBuilder {
	return p.report(diag.SevError, code, sp, args...)
}

func (p *Parser) report(sev diag.Severity, code diag.Code, sp source.Span, args ...any) *diag.ReportBuilder {
	if p.opts.Reporter == nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		return nil
	}
	if p.opts.Enough() {
		return nil
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	return diag.ReportTemplate(p.opts.Reporter, sev, code, sp, args...)
}

// resyncUntil пропускает токены до одного из kinds (не съедая его) или EOF.
// Nested (), [] and {} groups are skipped whole; unbalanced closers are
// consumed like any other token.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		if depth == 0 && p.atAny(kinds...) {
			return
		}
		switch p.lx.Peek().Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			// непарная закрывающая скобка просто пропускается
			if depth > 0 {
				depth--
			}
		}
		p.advance()
	}
}

// sameLine reports whether no newline separates the end of a from the start of b.
func (p *Parser) sameLine(a, b source.Span) bool {
	content := p.lx.File().Content
	if b.Start <= a.End || int(b.Start) > len(content) {
		return true
	}
	return bytes.IndexByte(content[a.End:b.Start], '\n') < 0
}

// glued reports whether b starts exactly where a ends.
func glued(a, b source.Span) bool {
	return a.File == b.File && a.End == b.Start
}

// byteAt returns the source byte at off, or 0 past the end.
func (p *Parser) byteAt(off uint32) byte {
	content := p.lx.File().Content
	if int(off) >= len(content) {
		return 0
	}
	return content[off]
}

// describe renders a token for "found X" messages.
func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return "end of file"
	case tok.Kind == token.Ident:
		return "identifier '" + tok.Text + "'"
	case tok.Kind == token.Invalid:
		return "invalid token"
	case tok.IsLiteral():
		return tok.Kind.String() + " literal"
	default:
		return "'" + tok.Kind.String() + "'"
	}
}
