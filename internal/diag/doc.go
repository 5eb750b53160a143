// Package diag defines the diagnostic model shared by the lexer, the parser
// and the module loader.
//
// # Data model
//
// Every code owns one catalog Template: a stable numeric ID (LEX1001,
// SYN2002, SEM3001, ...) and a message with positional '$' slots. A
// Diagnostic realizes a template:
//
//   - Severity: Info, Warning or Error.
//   - Code and the filled Message.
//   - Primary span: the canonical source.Span pointing to the issue.
//   - Notes: ordered secondary labels ("first declared here").
//   - Fixes: optional structured edits (confusable replacements).
//   - Highlight: whether renderers draw the snippet with carets.
//
// # Emitting diagnostics
//
// Phases never print. They emit through a Reporter, usually via
// ReportError/ReportTemplate + WithNote + Emit. BagReporter collects into a
// bounded Bag, SliceReporter into a plain slice, DedupReporter filters
// repeats.
//
// Rendering lives in internal/diagfmt.
package diag
