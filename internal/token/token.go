package token

import (
	"lazy/internal/source"
)

// Token represents a single significant source token.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string // raw source slice
	Value Value
}

// Value holds the decoded payload of a literal token.
type Value struct {
	Int   uint64
	Float float64
	Char  rune
	Str   string // unescaped string or template text
	Bool  bool
	// Interpolations are ordered by Offset (template strings only).
	Interpolations []Interpolation
}

// Interpolation is one ${...} inside a template string.
type Interpolation struct {
	Offset uint32      // byte offset into Value.Str where the value is spliced
	Span   source.Span // source range of the expression between ${ and }
}

// IsLiteral reports whether the token is a literal of any family.
func (t Token) IsLiteral() bool {
	return t.Kind >= IntLit && t.Kind <= NoneLit
}

// IsOperator reports whether the token is an operator.
func (t Token) IsOperator() bool {
	return t.Kind >= Plus && t.Kind <= FatArrow
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	return t.Kind >= Semicolon && t.Kind <= Hash
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwLet && t.Kind <= KwYield
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsAssign reports plain and compound assignment operators.
func (k Kind) IsAssign() bool {
	return k == Assign || (k >= PlusAssign && k <= ShlAssign)
}
