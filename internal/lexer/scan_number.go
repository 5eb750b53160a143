package lexer

import (
	"errors"
	"math"
	"strconv"

	"lazy/internal/diag"
	"lazy/internal/token"
)

// Единицы времени: литерал в миллисекундах.
var unitMultipliers = map[byte]uint64{
	's': 1000,
	'm': 60 * 1000,
	'h': 60 * 60 * 1000,
	'd': 24 * 60 * 60 * 1000,
}

var baseNames = map[int]string{2: "binary", 8: "octal", 10: "decimal", 16: "hex"}

// scanNumber handles 123, 1_000, 0x1F, 0o17, 0b101, 1.5 and unit suffixes
// (5s, 1.5h). Hex literals take no unit since 'd' is a hex digit.
// Malformed literals are reported and returned as Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	base := 10
	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekN(1) {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}

	digits := make([]byte, 0, 16)
	frac, invalid := false, false
scan:
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '_':
			lx.cursor.Bump()
		case digitValue(b) < base:
			digits = append(digits, lx.cursor.Bump())
		case b == '.' && base == 10 && len(digits) > 0:
			// '..' and member access end the number
			if !isDec(lx.cursor.PeekN(1)) {
				break scan
			}
			if frac {
				dot := lx.cursor.Mark()
				lx.cursor.Bump()
				lx.errLex(diag.LexExtraDecimalPoint, lx.cursor.SpanFrom(dot))
				lx.skipNumberTail()
				invalid = true
				break scan
			}
			frac = true
			digits = append(digits, lx.cursor.Bump())
		default:
			break scan
		}
	}

	var mult uint64
	if !invalid && base != 16 && len(digits) > 0 {
		if m, ok := unitMultipliers[lx.cursor.Peek()]; ok && !isIdentContinueByte(lx.cursor.PeekN(1)) {
			mult = m
			lx.cursor.Bump()
		}
	}

	if !invalid && isIdentContinueByte(lx.cursor.Peek()) {
		bad := lx.cursor.Mark()
		ch := lx.cursor.Bump()
		lx.errLex(diag.LexInvalidDigit, lx.cursor.SpanFrom(bad), string(ch), baseNames[base])
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		invalid = true
	}

	tok := lx.emit(token.IntLit, start)
	if invalid {
		tok.Kind = token.Invalid
		return tok
	}
	if len(digits) == 0 {
		if lx.opts.Reporter != nil {
			diag.ReportError(lx.opts.Reporter, diag.LexInvalidDigit, tok.Span,
				baseNames[base]+" literal has no digits").Emit()
		}
		tok.Kind = token.Invalid
		return tok
	}

	if frac {
		v, err := strconv.ParseFloat(string(digits), 64)
		if err != nil {
			lx.errLex(diag.LexNumberTooLarge, tok.Span, tok.Text)
			tok.Kind = token.Invalid
			return tok
		}
		if mult != 0 {
			v *= float64(mult)
		}
		tok.Kind = token.FloatLit
		tok.Value.Float = v
		return tok
	}

	v, err := strconv.ParseUint(string(digits), base, 64)
	if err == nil && mult != 0 {
		if v > math.MaxUint64/mult {
			err = strconv.ErrRange
		}
		v *= mult
	}
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			lx.errLex(diag.LexInvalidDigit, tok.Span, tok.Text, baseNames[base])
		} else {
			lx.errLex(diag.LexNumberTooLarge, tok.Span, tok.Text)
		}
		tok.Kind = token.Invalid
		return tok
	}
	tok.Value.Int = v
	return tok
}

// skipNumberTail consumes the rest of a malformed literal, further
// "digits.digits" groups included, so it ends up in one Invalid token.
func (lx *Lexer) skipNumberTail() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinueByte(b) || (b == '.' && isDec(lx.cursor.PeekN(1))) {
			lx.cursor.Bump()
			continue
		}
		return
	}
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return 99
}
