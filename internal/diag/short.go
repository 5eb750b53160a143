package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"lazy/internal/source"
)

type shortLine struct {
	severity string
	code     string
	path     string
	line     uint32
	col      uint32
	msg      string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.severity, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics renders diagnostics one per line, sorted by location:
//
//	error SYN2002 main.lazy:3:9 expected ';' after expression
//
// Paths are relative to the file set base. Diagnostics without a location
// print "-" as the path. With includeNotes every note gets its own line.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		head := shortLine{severity: d.Severity.Label(), code: d.Code.ID(), path: "-", msg: oneLine(d.Message)}
		if d.HasLocation() {
			if !locate(fs, d.Primary, &head) {
				continue
			}
		}
		lines = append(lines, head)
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			nl := shortLine{severity: "note", code: head.code, msg: oneLine(note.Msg)}
			if locate(fs, note.Span, &nl) {
				lines = append(lines, nl)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.severity, b.severity),
			cmp.Compare(a.code, b.code),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func locate(fs *source.FileSet, span source.Span, l *shortLine) bool {
	if int(span.File) >= fs.Len() {
		return false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(fs.Get(span.File).FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	l.path, l.line, l.col = path, start.Line, start.Col
	return true
}

// oneLine folds a multi-line message onto a single line.
func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
