package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"

	"fortio.org/safecast"
)

// scanString читает "..." с экранированием. Переводы строк допустимы.
// An unterminated string is reported and closes at end of input.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	var sb strings.Builder
	for {
		if lx.cursor.EOF() {
			lx.errLex(diag.LexEndOfString, lx.cursor.SpanFrom(start), "string literal")
			break
		}
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			break
		}
		if b == '\\' {
			lx.scanEscape(&sb)
			continue
		}
		sb.WriteByte(lx.cursor.Bump())
	}
	tok := lx.emit(token.StringLit, start)
	tok.Value.Str = sb.String()
	return tok
}

// scanTemplate читает `...${expr}...`. The token keeps the decoded text and,
// for each interpolation, the byte offset into that text plus the source
// span of the expression. The parser re-lexes those spans.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '`'
	var sb strings.Builder
	var parts []token.Interpolation
	closed := false
loop:
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '`':
			lx.cursor.Bump()
			closed = true
			break loop
		case b == '\\':
			lx.scanEscape(&sb)
		case b == '$' && lx.cursor.PeekN(1) == '{':
			lx.cursor.Bump()
			lx.cursor.Bump()
			exprStart := lx.cursor.Off
			exprEnd, ok := lx.skipInterpolation()
			if !ok {
				break loop
			}
			offset, err := safecast.Conv[uint32](sb.Len())
			if err != nil {
				panic(fmt.Errorf("template offset overflow: %w", err))
			}
			parts = append(parts, token.Interpolation{
				Offset: offset,
				Span:   source.Span{File: lx.file.ID, Start: exprStart, End: exprEnd},
			})
		default:
			sb.WriteByte(lx.cursor.Bump())
		}
	}

	tok := lx.emit(token.TemplateLit, start)
	tok.Value.Str = sb.String()
	tok.Value.Interpolations = parts
	switch {
	case !closed:
		lx.errLex(diag.LexEndOfString, tok.Span, "template string")
	case len(parts) == 0:
		lx.warnLex(diag.LexPointlessTemplate, tok.Span)
	}
	return tok
}

// skipInterpolation consumes up to and including the '}' matching an
// already consumed "${". Nested braces, strings, chars and templates are
// balanced. Returns the offset of the closing brace.
func (lx *Lexer) skipInterpolation() (uint32, bool) {
	depth := 1
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := lx.cursor.Off
				lx.cursor.Bump()
				return end, true
			}
		case '"', '\'':
			lx.skipQuoted(lx.cursor.Peek())
			continue
		case '`':
			lx.skipNestedTemplate()
			continue
		}
		lx.cursor.Bump()
	}
	return lx.cursor.Off, false
}

func (lx *Lexer) skipQuoted(quote byte) {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			return
		}
	}
}

func (lx *Lexer) skipNestedTemplate() {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '`':
			lx.cursor.Bump()
			return
		case b == '$' && lx.cursor.PeekN(1) == '{':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if _, ok := lx.skipInterpolation(); !ok {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
}

// scanChar читает 'x': ровно одна кодовая точка.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	var value rune
	count := 0
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexEndOfChar, tok.Span)
			return tok
		}
		if lx.cursor.Peek() == '\'' {
			lx.cursor.Bump()
			break
		}
		var r rune
		if lx.cursor.Peek() == '\\' {
			var sb strings.Builder
			lx.scanEscape(&sb)
			r, _ = utf8.DecodeRuneInString(sb.String())
		} else {
			r = lx.bumpRune()
		}
		if count == 0 {
			value = r
		}
		count++
	}

	tok := lx.emit(token.CharLit, start)
	switch {
	case count == 0:
		lx.errLex(diag.LexEmptyChar, tok.Span)
		tok.Kind = token.Invalid
	case count > 1:
		lx.errLex(diag.LexCharTooLong, tok.Span, count)
		tok.Kind = token.Invalid
	default:
		tok.Value.Char = value
	}
	return tok
}

// scanEscape decodes one backslash sequence into sb.
// Unknown escapes are reported as warnings and kept verbatim.
func (lx *Lexer) scanEscape(sb *strings.Builder) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\\'
	if lx.cursor.EOF() {
		return
	}
	c := lx.cursor.Bump()
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\\', '"', '\'', '`', '$':
		sb.WriteByte(c)
	case 'u':
		if r, ok := lx.scanUnicodeEscape(); ok {
			sb.WriteRune(r)
			return
		}
		lx.warnLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "u")
	default:
		lx.warnLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), string(c))
		sb.WriteByte(c)
	}
}

// scanUnicodeEscape reads {XXXX} after \u.
func (lx *Lexer) scanUnicodeEscape() (rune, bool) {
	if !lx.cursor.Eat('{') {
		return 0, false
	}
	begin := lx.cursor.Off
	for isHex(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	hex := string(lx.file.Content[begin:lx.cursor.Off])
	if !lx.cursor.Eat('}') || hex == "" || len(hex) > 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}
