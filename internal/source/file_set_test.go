package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.lazy", []byte("let a = 1;"), 0)
	id2 := fs.Add("main.lazy", []byte("let b = 2;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("main.lazy")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "let a = 1;" {
		t.Fatalf("old version lost: %q", got)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.lazy", []byte("\xEF\xBB\xBFa\r\nb\r\n"))
	f := fs.Get(id)

	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 || f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) || f.LineIdx[0] != want[0] || f.LineIdx[1] != want[1] {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
}

func TestResolveCountsCodePoints(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("u.lazy", []byte("αβ x\nsecond"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"file start", 0, LineCol{Line: 1, Col: 1}},
		{"after two greek letters", 4, LineCol{Line: 1, Col: 3}},
		{"newline itself", 6, LineCol{Line: 1, Col: 5}},
		{"second line", 7, LineCol{Line: 2, Col: 1}},
		{"end of file", 13, LineCol{Line: 2, Col: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Fatalf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestRangeCarriesOffsets(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.lazy", []byte("let x = 1;\nlet y = 2;"))
	r := fs.Range(Span{File: id, Start: 4, End: 15})

	if r.Start != (Position{Line: 1, Col: 5, Offset: 4}) {
		t.Fatalf("start = %+v", r.Start)
	}
	if r.End != (Position{Line: 2, Col: 5, Offset: 15}) {
		t.Fatalf("end = %+v", r.End)
	}
	if !r.MultiLine() {
		t.Fatal("expected multi-line range")
	}
}

func TestGetLine(t *testing.T) {
	f := &File{Content: []byte("one\ntwo\n"), LineIdx: []uint32{3, 7}}
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 6, End: 12}
	c := a.Cover(b)
	if c != (Span{File: 1, Start: 4, End: 12}) {
		t.Fatalf("Cover = %v", c)
	}
	if !c.Contains(a) || !c.Contains(b) {
		t.Fatal("cover must contain both inputs")
	}
	if a.Cover(Span{File: 2, Start: 0, End: 100}) != a {
		t.Fatal("spans of different files must not merge")
	}
	if (Span{File: 1, Start: 3, End: 3}).Contains(a) {
		t.Fatal("empty span contains nothing wider")
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	if err := os.MkdirAll(filepath.Join(base, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := RelativePath(filepath.Join(base, "nested", "a.lazy"), base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != "nested/a.lazy" {
		t.Fatalf("inside base: got %q", got)
	}

	outside := filepath.Join(tmp, "other", "b.lazy")
	got, err = RelativePath(outside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(outside) {
		t.Fatalf("outside base: got %q", got)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("alpha")
	b := in.Intern("beta")
	if a == b || a == NoStringID {
		t.Fatalf("bad ids %d %d", a, b)
	}
	if in.Intern("alpha") != a {
		t.Fatal("re-interning must return the same id")
	}
	if s, ok := in.Lookup(b); !ok || s != "beta" {
		t.Fatalf("Lookup = %q,%v", s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatal("unknown id must not resolve")
	}
	if in.Len() != 3 {
		t.Fatalf("Len = %d", in.Len())
	}
}
