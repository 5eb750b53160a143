package fuzztests

import (
	"testing"

	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.lazy", clampInput(input))
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for i, tok := range lx.All() {
			if tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(file.Content) {
				t.Fatalf("token %d has span %v outside content of %d bytes", i, tok.Span, len(file.Content))
			}
			if tok.Span.Start < prevEnd {
				t.Fatalf("token %d overlaps its predecessor: %v < %d", i, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
	})
}
