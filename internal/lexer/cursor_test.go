package lexer

import (
	"testing"

	"lazy/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.lazy", []byte(content)))
}

func TestCursorTracksLinesAndColumns(t *testing.T) {
	c := NewCursor(createFile("ab\nαc"))

	want := []source.Position{
		{Line: 1, Col: 2, Offset: 1},
		{Line: 1, Col: 3, Offset: 2},
		{Line: 2, Col: 1, Offset: 3},
		{Line: 2, Col: 2, Offset: 4}, // first byte of α starts the code point
		{Line: 2, Col: 2, Offset: 5}, // continuation byte does not advance
		{Line: 2, Col: 3, Offset: 6},
	}
	for i, w := range want {
		c.Bump()
		if got := c.Pos(); got != w {
			t.Fatalf("step %d: pos = %+v, want %+v", i, got, w)
		}
	}
	if !c.EOF() || c.Bump() != 0 {
		t.Fatal("expected EOF")
	}
}

func TestCursorPeekDoesNotConsume(t *testing.T) {
	c := NewCursor(createFile("xyz"))
	if c.Peek() != 'x' || c.PeekN(2) != 'z' || c.PeekN(3) != 0 {
		t.Fatal("unexpected peek results")
	}
	if c.Off != 0 {
		t.Fatal("peek moved the cursor")
	}
	b0, b1, ok := c.Peek2()
	if !ok || b0 != 'x' || b1 != 'y' {
		t.Fatal("Peek2 mismatch")
	}
}

func TestCursorMarkReset(t *testing.T) {
	c := NewCursor(createFile("a\nbc"))
	c.Bump()
	m := c.Mark()
	c.Bump()
	c.Bump()
	if sp := c.SpanFrom(m); sp.Start != 1 || sp.End != 3 {
		t.Fatalf("span = %v", sp)
	}
	c.Reset(m)
	if c.Pos() != (source.Position{Line: 1, Col: 2, Offset: 1}) {
		t.Fatalf("reset pos = %+v", c.Pos())
	}
	if !c.Eat('\n') || c.Eat('x') {
		t.Fatal("Eat mismatch")
	}
}

func TestRangeCursorRespectsLimit(t *testing.T) {
	f := createFile("ab\ncdef")
	c := NewRangeCursor(f, source.Span{File: f.ID, Start: 4, End: 6})
	if c.Pos() != (source.Position{Line: 2, Col: 2, Offset: 4}) {
		t.Fatalf("start pos = %+v", c.Pos())
	}
	if c.Bump() != 'd' || c.Bump() != 'e' || !c.EOF() {
		t.Fatal("cursor must stop at the range end")
	}
}
