package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lazy/internal/diag"
	"lazy/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в текущем порядке (обычно после bag.Sort()).
// Каждая диагностика рендерится через Render, между ними пустая строка.
// С ShowFixes печатаются исправления, с ShowPreview ещё и before/after.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	lookup := fileLookup(fs, opts.PathMode)
	for i, d := range bag.Items() {
		r := renderer{
			opts:   RenderOpts{Color: opts.Color, TabWidth: opts.TabWidth, SkipNotes: !opts.ShowNotes},
			lookup: lookup,
			pal:    newPalette(opts.Color),
		}
		if i > 0 {
			r.b.WriteByte('\n')
		}
		r.diagnostic(&d)
		if opts.ShowFixes {
			r.fixes(&d, fs, opts.ShowPreview)
		}
		if _, err := io.WriteString(w, r.b.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) fixes(d *diag.Diagnostic, fs *source.FileSet, preview bool) {
	for i, fix := range d.Fixes {
		fmt.Fprintf(&r.b, "  %s %s\n", r.pal.note.Sprintf("fix #%d:", i+1), fix.Title)
		for _, edit := range fix.Edits {
			where := "?"
			if view, ok := r.lookup(edit.Span.File); ok {
				line, col := locate(view.lines, edit.Span.Start)
				where = fmt.Sprintf("%s:%d:%d", view.path, line+1, col)
			}
			fmt.Fprintf(&r.b, "    %s apply=%q\n", where, edit.NewText)
			if !preview {
				continue
			}
			p, err := buildFixEditPreview(fs, edit)
			if err != nil {
				fmt.Fprintf(&r.b, "    preview unavailable: %v\n", err)
				continue
			}
			r.b.WriteString("    preview:\n")
			for _, l := range p.before {
				fmt.Fprintf(&r.b, "      %s\n", r.pal.err.Sprint("- "+l))
			}
			for _, l := range p.after {
				fmt.Fprintf(&r.b, "      %s\n", r.pal.info.Sprint("+ "+l))
			}
		}
	}
}

// fileLookup resolves file IDs against fs, caching split lines per file.
func fileLookup(fs *source.FileSet, mode PathMode) lookupFunc {
	cache := make(map[source.FileID]fileView)
	return func(id source.FileID) (fileView, bool) {
		if fs == nil || int(id) >= fs.Len() {
			return fileView{}, false
		}
		if v, ok := cache[id]; ok {
			return v, true
		}
		f := fs.Get(id)
		v := fileView{path: formatPath(f, fs, mode), lines: f.Lines()}
		cache[id] = v
		return v, true
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	// auto: относительный путь только внутри базовой директории
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	rel, err := source.RelativePath(f.Path, fs.BaseDir())
	if err != nil || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return f.Path
	}
	return rel
}
