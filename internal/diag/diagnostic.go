package diag

import (
	"lazy/internal/source"
)

// Note is a secondary label: extra context at another span.
type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
	// Highlight asks renderers to draw the source snippet with carets.
	Highlight bool
}
