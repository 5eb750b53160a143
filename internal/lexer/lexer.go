package lexer

import (
	"unicode/utf8"

	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// NewRange lexes only the bytes of span. Spans of the produced tokens are
// still absolute offsets into file, so template interpolations re-lexed this
// way report diagnostics at their real location.
func NewRange(file *source.File, span source.Span, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewRangeCursor(file, span), opts: opts}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '`':
		tok = lx.scanTemplate()
	case ch == '\'':
		tok = lx.scanChar()
	case ch >= utf8.RuneSelf:
		tok = lx.scanForeignRune()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	return lx.checkLength(tok)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// Pos returns the cursor position (past any buffered token).
func (lx *Lexer) Pos() source.Position {
	return lx.cursor.Pos()
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(k token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) checkLength(tok token.Token) token.Token {
	limit := lx.opts.MaxTokenLength
	if limit == 0 {
		limit = maxTokenLength
	}
	if tok.Span.Len() <= limit {
		return tok
	}
	lx.errLex(diag.LexTokenTooLong, tok.Span, limit)
	for !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	tok.Kind = token.Invalid
	tok.Value = token.Value{}
	return tok
}

// skipTrivia consumes whitespace and comments. Block comments nest.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekN(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '/' && lx.cursor.PeekN(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() {
		b0, b1, _ := lx.cursor.Peek2()
		switch {
		case b0 == '/' && b1 == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case b0 == '*' && b1 == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start))
}

// All drains the lexer and returns every token up to and including EOF.
func (lx *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}
