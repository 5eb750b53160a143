package lexer

import (
	"strings"

	"lazy/internal/diag"
	"lazy/internal/token"
)

// opChars - символы, из которых состоят операторы.
const opChars = "+-><=!%|&.?~^*/:"

// operators is the complete operator table. Every multi-byte entry's prefix
// is also an entry, which is what makes byte-by-byte maximal munch correct.
// ">>" is absent on purpose: closing generic lists must stay separable.
var operators = map[string]token.Kind{
	"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash,
	"%": token.Percent, "=": token.Assign, "!": token.Bang, "<": token.Lt,
	">": token.Gt, "&": token.Amp, "|": token.Pipe, "^": token.Caret,
	"~": token.Tilde, "?": token.Question, ":": token.Colon, ".": token.Dot,

	"+=": token.PlusAssign, "-=": token.MinusAssign, "*=": token.StarAssign,
	"/=": token.SlashAssign, "%=": token.PercentAssign, "&=": token.AmpAssign,
	"|=": token.PipeAssign, "^=": token.CaretAssign, "==": token.EqEq,
	"!=": token.BangEq, "<=": token.LtEq, ">=": token.GtEq, "<<": token.Shl,
	"&&": token.AndAnd, "||": token.OrOr, "::": token.ColonColon,
	"..": token.DotDot, "->": token.Arrow, "=>": token.FatArrow,

	"<<=": token.ShlAssign, "..=": token.DotDotEq, "...": token.DotDotDot,
}

var punct = map[byte]token.Kind{
	';': token.Semicolon, ',': token.Comma,
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	'#': token.Hash,
}

func isOpChar(b byte) bool {
	return b != 0 && strings.IndexByte(opChars, b) >= 0
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	if k, ok := punct[b]; ok {
		return lx.emit(k, start)
	}
	if isOpChar(b) {
		return lx.scanOperatorFrom(start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexInvalidChar, tok.Span, tok.Text)
	return tok
}

// scanOperatorFrom продолжает оператор, первый байт которого уже съеден
// (start указывает на него). Greedy: extend while the longer text is still
// in the table.
func (lx *Lexer) scanOperatorFrom(start Mark) token.Token {
	for isOpChar(lx.cursor.Peek()) {
		cand := string(lx.file.Content[start.off:lx.cursor.Off+1])
		if _, ok := operators[cand]; !ok {
			break
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	tok.Kind = operators[tok.Text]
	return tok
}

// SplitOperator splits the buffered lookahead token after its first byte,
// e.g. ">=" into ">" and "=". The first part is returned; the remainder is
// re-scanned from its already consumed leading byte and becomes the new
// lookahead. Returns false when the lookahead is not a compound operator.
func (lx *Lexer) SplitOperator() (token.Token, bool) {
	if lx.look == nil {
		lx.Peek()
	}
	tok := *lx.look
	if tok.Span.Len() < 2 || !isOpChar(tok.Text[0]) {
		return tok, false
	}
	firstKind, ok := operators[tok.Text[:1]]
	if !ok {
		return tok, false
	}

	// operator tokens never span lines: rewind the column by the tail length
	tail := tok.Span.Len() - 1
	restart := Mark{off: tok.Span.Start + 1, line: lx.cursor.Line, col: lx.cursor.Col - tail}
	lx.look = nil
	lx.cursor.Reset(restart)
	lx.cursor.Bump()
	rest := lx.scanOperatorFrom(restart)
	lx.look = &rest

	first := tok
	first.Kind = firstKind
	first.Text = tok.Text[:1]
	first.Span.End = tok.Span.Start + 1
	return first, true
}
