package diagfmt

import (
	"strings"
	"testing"

	"lazy/internal/diag"
	"lazy/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestRenderSnippet(t *testing.T) {
	tests := []struct {
		name string
		src  string
		span source.Span
		want string
	}{
		{
			name: "single line",
			src:  "let x = 1\nmain {}\n",
			span: span(8, 9),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:9\n" +
				"  |\n" +
				"1 | let x = 1\n" +
				"  |         ^\n",
		},
		{
			name: "covers whole range",
			src:  "static name = 1;",
			span: span(7, 11),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:8\n" +
				"  |\n" +
				"1 | static name = 1;\n" +
				"  |        ^^^^\n",
		},
		{
			name: "empty span gets one caret",
			src:  "let x = 1",
			span: span(9, 9),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:10\n" +
				"  |\n" +
				"1 | let x = 1\n" +
				"  |          ^\n",
		},
		{
			name: "multi line",
			src:  "main {\n  x\n}\n",
			span: span(5, 12),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:6\n" +
				"  |\n" +
				"1 | main {\n" +
				"  |      ^\n" +
				"2 |   x\n" +
				"3 | }\n" +
				"  | ^\n",
		},
		{
			name: "wide runes",
			src:  "\"日本\" x",
			span: span(9, 10),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:6\n" +
				"  |\n" +
				"1 | \"日本\" x\n" +
				"  |        ^\n",
		},
		{
			name: "tabs expand",
			src:  "\tx",
			span: span(1, 2),
			want: "error[SYN2001]: boom\n" +
				"  --> main.lazy:1:2\n" +
				"  |\n" +
				"1 |     x\n" +
				"  |     ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diag.NewError(diag.SynUnexpectedToken, tt.span, "boom")
			got := Render(d, "main.lazy", strings.Split(tt.src, "\n"), RenderOpts{})
			if got != tt.want {
				t.Fatalf("want:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderGutterWidth(t *testing.T) {
	src := strings.Repeat("\n", 11) + "oops"
	d := diag.NewError(diag.SynUnexpectedToken, span(11, 15), "boom")
	got := Render(d, "m.lazy", strings.Split(src, "\n"), RenderOpts{})
	want := "error[SYN2001]: boom\n" +
		"  --> m.lazy:12:1\n" +
		"   |\n" +
		"12 | oops\n" +
		"   | ^^^^\n"
	if got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderWithoutHighlight(t *testing.T) {
	lines := []string{"let x = 1"}
	d := diag.NewError(diag.SynUnexpectedToken, span(4, 5), "boom").WithoutHighlight()
	got := Render(d, "main.lazy", lines, RenderOpts{})
	want := "error[SYN2001]: boom\n  --> main.lazy:1:5\n"
	if got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderWithoutLocation(t *testing.T) {
	d := diag.NewError(diag.IOLoadFileError, source.Span{}, "cannot read \"x.lazy\"").WithoutHighlight()
	got := Render(d, "", nil, RenderOpts{})
	if want := "error[IO4001]: cannot read \"x.lazy\"\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNotes(t *testing.T) {
	lines := []string{"static a = 1;", "static a = 2;"}
	d := diag.NewError(diag.SynUnexpectedToken, span(21, 22), "boom").
		WithNote(span(7, 8), "first declared here").
		WithNote(source.Span{File: 3, Start: 0, End: 1}, "elsewhere")

	got := Render(d, "a.lazy", lines, RenderOpts{})
	wantTail := "  = note: first declared here\n" +
		"    --> a.lazy:1:8\n" +
		"  = note: elsewhere\n"
	if !strings.HasSuffix(got, wantTail) {
		t.Fatalf("notes not rendered as expected:\n%s", got)
	}

	skipped := Render(d, "a.lazy", lines, RenderOpts{SkipNotes: true})
	if strings.Contains(skipped, "note:") {
		t.Fatalf("SkipNotes still rendered notes:\n%s", skipped)
	}
}

func TestRenderDeterministic(t *testing.T) {
	lines := []string{"let x = 1", "main {}"}
	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken, span(4, 5), "careful")

	plain := Render(d, "main.lazy", lines, RenderOpts{})
	if again := Render(d, "main.lazy", lines, RenderOpts{}); again != plain {
		t.Fatalf("render is not deterministic:\n%s\n---\n%s", plain, again)
	}
	if !strings.HasPrefix(plain, "warning[SYN2001]: careful\n") {
		t.Fatalf("unexpected header:\n%s", plain)
	}
	if strings.Contains(plain, "\x1b[") {
		t.Fatal("colour escapes without Color")
	}

	colored := Render(d, "main.lazy", lines, RenderOpts{Color: true})
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected colour escapes:\n%q", colored)
	}
	if again := Render(d, "main.lazy", lines, RenderOpts{Color: true}); again != colored {
		t.Fatal("coloured render is not deterministic")
	}
}

func TestLocate(t *testing.T) {
	lines := []string{"ab", "вдх", ""}
	tests := []struct {
		off  uint32
		line int
		col  uint32
	}{
		{0, 0, 1},
		{2, 0, 3},
		{3, 1, 1},
		{5, 1, 2},
		{10, 2, 1},
		{99, 2, 1},
	}
	for _, tt := range tests {
		line, col := locate(lines, tt.off)
		if line != tt.line || col != tt.col {
			t.Errorf("locate(%d) = %d:%d, want %d:%d", tt.off, line, col, tt.line, tt.col)
		}
	}
}
