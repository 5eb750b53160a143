package lexer

import (
	"fmt"

	"lazy/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле.
// Line/Col are maintained incrementally; Col counts code points.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
	Line  uint32
	Col   uint32
}

// NewCursor creates a cursor over the whole file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit, Line: 1, Col: 1}
}

// NewRangeCursor creates a cursor restricted to span, with Line/Col resolved
// for span.Start.
func NewRangeCursor(f *source.File, span source.Span) Cursor {
	c := NewCursor(f)
	if span.End < c.Limit {
		c.Limit = span.End
	}
	for c.Off < span.Start && c.Off < c.Limit {
		c.Bump()
	}
	return c
}

// EOF проверяет, достигнут ли конец входа.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0.
func (c *Cursor) Peek() byte {
	return c.PeekN(0)
}

// PeekN returns the byte k positions ahead without consuming (0 past the end).
func (c *Cursor) PeekN(k uint32) byte {
	if c.Off+k >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+k]
}

// Peek2 читает текущий и следующий байт.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Bump consumes one byte and returns it (0 at the end).
// '\n' starts a new line; UTF-8 continuation bytes do not advance Col.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	switch {
	case b == '\n':
		c.Line++
		c.Col = 1
	case b&0xC0 != 0x80:
		c.Col++
	}
	return b
}

// Pos returns the current position.
func (c *Cursor) Pos() source.Position {
	return source.Position{Line: c.Line, Col: c.Col, Offset: c.Off}
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента.
type Mark struct {
	off  uint32
	line uint32
	col  uint32
}

// Mark сохраняет текущую позицию курсора.
func (c *Cursor) Mark() Mark {
	return Mark{off: c.Off, line: c.Line, col: c.Col}
}

// Offset returns the byte offset stored in the mark.
func (m Mark) Offset() uint32 { return m.off }

// SpanFrom получает Span для фрагмента, начиная с метки.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: m.off, End: c.Off}
}

// Reset возвращает курсор назад к метке.
func (c *Cursor) Reset(m Mark) {
	c.Off, c.Line, c.Col = m.off, m.line, m.col
}

// Eat consumes the next byte if it matches.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Bump()
		return true
	}
	return false
}
