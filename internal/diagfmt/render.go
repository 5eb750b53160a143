package diagfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lazy/internal/diag"
	"lazy/internal/source"
)

// snippets longer than this keep the first and last lines only
const maxSnippetLines = 6

type fileView struct {
	path  string
	lines []string
}

type lookupFunc func(source.FileID) (fileView, bool)

type palette struct {
	err, warn, info, note, gutter, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Render formats a single diagnostic. lines is the text of the primary span's
// file split on '\n'; path is how that file is shown. Notes pointing at other
// files are rendered without a location. The result always ends with '\n'.
func Render(d diag.Diagnostic, path string, lines []string, opts RenderOpts) string {
	lookup := func(id source.FileID) (fileView, bool) {
		if id != d.Primary.File || lines == nil {
			return fileView{}, false
		}
		return fileView{path: path, lines: lines}, true
	}
	r := renderer{opts: opts, lookup: lookup, pal: newPalette(opts.Color)}
	r.diagnostic(&d)
	return r.b.String()
}

type renderer struct {
	opts   RenderOpts
	lookup lookupFunc
	pal    palette
	b      strings.Builder
}

func (r *renderer) diagnostic(d *diag.Diagnostic) {
	sev := r.pal.severity(d.Severity)
	fmt.Fprintf(&r.b, "%s%s\n",
		sev.Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID()),
		r.pal.bold.Sprint(": "+d.Message))

	if d.HasLocation() {
		if view, ok := r.lookup(d.Primary.File); ok {
			line, col := locate(view.lines, d.Primary.Start)
			fmt.Fprintf(&r.b, "  %s %s:%d:%d\n", r.pal.gutter.Sprint("-->"), view.path, line+1, col)
			if d.Highlight {
				r.snippet(view.lines, d.Primary, sev)
			}
		}
	}

	if r.opts.SkipNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&r.b, "  %s %s\n", r.pal.gutter.Sprint("="), r.pal.note.Sprint("note: ")+n.Msg)
		if view, ok := r.lookup(n.Span.File); ok {
			line, col := locate(view.lines, n.Span.Start)
			fmt.Fprintf(&r.b, "    %s %s:%d:%d\n", r.pal.gutter.Sprint("-->"), view.path, line+1, col)
		}
	}
}

// snippet prints the covered lines with a gutter and caret rows.
func (r *renderer) snippet(lines []string, sp source.Span, sev *color.Color) {
	if len(lines) == 0 {
		return
	}
	first, firstByte := locateByte(lines, sp.Start)
	lastOff := sp.End
	if sp.End > sp.Start {
		lastOff = sp.End - 1
	}
	last, lastByte := locateByte(lines, lastOff)
	if last < first {
		last, lastByte = first, firstByte
	}

	gw := len(strconv.Itoa(last + 1))
	pad := strings.Repeat(" ", gw)
	bar := r.pal.gutter.Sprint("|")
	fmt.Fprintf(&r.b, "%s %s\n", pad, bar)

	tw := r.opts.tabWidth()
	row := func(i int) {
		text := expandTabs(lines[i], tw)
		num := r.pal.gutter.Sprintf("%*d", gw, i+1)
		if text == "" {
			fmt.Fprintf(&r.b, "%s %s\n", num, bar)
			return
		}
		fmt.Fprintf(&r.b, "%s %s %s\n", num, bar, text)
	}
	carets := func(at, n int) {
		fmt.Fprintf(&r.b, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", at), sev.Sprint(strings.Repeat("^", n)))
	}

	if first == last {
		row(first)
		endByte := firstByte
		if sp.End > sp.Start {
			var endLine int
			if endLine, endByte = locateByte(lines, sp.End); endLine != first {
				endByte = len(lines[first])
			}
		}
		start := displayWidth(lines[first][:firstByte], tw)
		width := displayWidth(lines[first][:endByte], tw) - start
		carets(start, max(width, 1))
		return
	}

	row(first)
	carets(displayWidth(lines[first][:firstByte], tw), 1)
	if last-first+1 > maxSnippetLines {
		fmt.Fprintf(&r.b, "%s\n", r.pal.gutter.Sprint(strings.Repeat(".", max(gw, 3))))
	} else {
		for i := first + 1; i < last; i++ {
			row(i)
		}
	}
	row(last)
	carets(displayWidth(lines[last][:lastByte], tw), 1)
}

// locate converts a byte offset into a 0-based line and 1-based rune column.
func locate(lines []string, off uint32) (line int, col uint32) {
	line, b := locateByte(lines, off)
	if line >= len(lines) {
		return line, 1
	}
	c, err := safecast.Conv[uint32](utf8.RuneCountInString(lines[line][:b]) + 1)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return line, c
}

// locateByte returns the 0-based line containing off and the byte offset
// within it. Offsets past the end clamp to the end of the last line.
func locateByte(lines []string, off uint32) (line, byteInLine int) {
	if len(lines) == 0 {
		return 0, 0
	}
	start := 0
	o := int(off)
	for i, l := range lines {
		end := start + len(l)
		if o <= end {
			return i, o - start
		}
		start = end + 1
	}
	lastLine := len(lines) - 1
	return lastLine, len(lines[lastLine])
}

func expandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func displayWidth(s string, tabWidth int) int {
	return runewidth.StringWidth(expandTabs(s, tabWidth))
}
