package lexer

import (
	"lazy/internal/diag"
	"lazy/internal/source"
)

// maxTokenLength bounds a single token; anything longer is treated as
// garbage input and the rest of the file is skipped.
const maxTokenLength = 1 << 20

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки игнорируем, но продолжаем лексить
	// MaxTokenLength overrides maxTokenLength when non-zero.
	MaxTokenLength uint32
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, args ...any) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportTemplate(lx.opts.Reporter, diag.SevError, code, sp, args...).Emit()
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, args ...any) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportTemplate(lx.opts.Reporter, diag.SevWarning, code, sp, args...).Emit()
}
