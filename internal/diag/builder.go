package diag

import "lazy/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Code:      code,
		Primary:   primary,
		Message:   msg,
		Highlight: true,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// Errorf builds an error from the code's template.
func Errorf(code Code, primary source.Span, args ...any) Diagnostic {
	return New(SevError, code, primary, code.Format(args...))
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// WithoutHighlight drops the snippet from rendered output, e.g. for IO errors.
func (d Diagnostic) WithoutHighlight() Diagnostic {
	d.Highlight = false
	return d
}

// HasLocation is false for diagnostics about a file that could not be
// read at all: zero span, no snippet.
func (d Diagnostic) HasLocation() bool {
	return d.Highlight || d.Primary != (source.Span{})
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(ds []Diagnostic) bool {
	for i := range ds {
		if ds[i].Severity >= SevError {
			return true
		}
	}
	return false
}
