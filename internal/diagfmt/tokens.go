package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"lazy/internal/source"
	"lazy/internal/token"
)

type TokenOutput struct {
	Kind     string      `json:"kind"`
	Category string      `json:"category"`
	Text     string      `json:"text,omitempty"`
	Span     source.Span `json:"span"`
	Value    any         `json:"value,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	  1: let             "let" at 1:1-1:4
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if v := tokenValue(tok); v != nil {
			fmt.Fprintf(w, " = %v", v)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// BuildTokensJSON converts tokens up to and including EOF.
func BuildTokensJSON(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Category: tok.Kind.Category(),
			Text:     tok.Text,
			Span:     tok.Span,
			Value:    tokenValue(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensJSON(tokens))
}

// tokenValue returns the decoded literal payload, nil for non-literals.
func tokenValue(tok token.Token) any {
	switch tok.Kind {
	case token.IntLit:
		return tok.Value.Int
	case token.FloatLit:
		return tok.Value.Float
	case token.CharLit:
		return string(tok.Value.Char)
	case token.StringLit, token.TemplateLit:
		return tok.Value.Str
	case token.BoolLit:
		return tok.Value.Bool
	}
	return nil
}
