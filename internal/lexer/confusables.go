package lexer

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"lazy/internal/diag"
	"lazy/internal/token"
)

// confusables maps look-alike characters to the ASCII character that was
// most likely intended. Fullwidth and compatibility forms not listed here
// are caught by NFKC folding in confusableFor.
var confusables = map[rune]rune{
	0x037E: ';',  // Greek question mark
	0x2018: '\'', // left single quotation mark
	0x2019: '\'', // right single quotation mark
	0x201A: ',',  // single low-9 quotation mark
	0x201C: '"',  // left double quotation mark
	0x201D: '"',  // right double quotation mark
	0x00AB: '"',  // «
	0x00BB: '"',  // »
	0x2032: '\'', // prime
	0x2033: '"',  // double prime
	0x02BC: '\'', // modifier letter apostrophe
	0x2010: '-',  // hyphen
	0x2011: '-',  // non-breaking hyphen
	0x2012: '-',  // figure dash
	0x2013: '-',  // en dash
	0x2014: '-',  // em dash
	0x2212: '-',  // minus sign
	0x00D7: '*',  // multiplication sign
	0x00F7: '/',  // division sign
	0x2215: '/',  // division slash
	0x2044: '/',  // fraction slash
	0x00B7: '.',  // middle dot
	0x2024: '.',  // one dot leader
	0x2039: '<',  // single left angle quotation
	0x203A: '>',  // single right angle quotation
	0x01C3: '!',  // latin letter retroflex click
	0x060C: ',',  // Arabic comma
	0x00A0: ' ',  // no-break space
	0x200B: ' ',  // zero width space
	0x3000: ' ',  // ideographic space
	// кириллица, набранная вместо латиницы
	0x0430: 'a', 0x0435: 'e', 0x043E: 'o', 0x0440: 'p', 0x0441: 'c', 0x0445: 'x', 0x0443: 'y',
	0x0410: 'A', 0x0412: 'B', 0x0415: 'E', 0x041A: 'K', 0x041C: 'M', 0x041D: 'H',
	0x041E: 'O', 0x0420: 'P', 0x0421: 'C', 0x0422: 'T', 0x0425: 'X',
	// греческие
	0x03BF: 'o', 0x0391: 'A', 0x0392: 'B', 0x0395: 'E', 0x0397: 'H', 0x039F: 'O', 0x03A1: 'P',
}

// confusableFor returns the intended ASCII character for r, if any.
func confusableFor(r rune) (rune, bool) {
	if c, ok := confusables[r]; ok {
		return c, true
	}
	folded := norm.NFKC.String(string(r))
	if len(folded) == 1 && folded[0] > ' ' && folded[0] < 0x7F {
		return rune(folded[0]), true
	}
	return 0, false
}

// scanForeignRune consumes one non-ASCII rune outside strings and comments.
// Identifiers are ASCII-only, so this always produces an Invalid token.
func (lx *Lexer) scanForeignRune() token.Token {
	start := lx.cursor.Mark()
	r := lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	if lx.opts.Reporter == nil {
		return tok
	}
	if want, ok := confusableFor(r); ok {
		diag.ReportTemplate(lx.opts.Reporter, diag.SevError, diag.LexConfusable, tok.Span,
			tok.Text, fmt.Sprintf("U+%04X", r), string(want)).
			WithFix(fmt.Sprintf("replace with '%c'", want), diag.FixEdit{Span: tok.Span, NewText: string(want)}).
			Emit()
		return tok
	}
	lx.errLex(diag.LexInvalidChar, tok.Span, tok.Text)
	return tok
}
