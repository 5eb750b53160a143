// Package token defines lexical token kinds for the lazy front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - A span never crosses a newline, except string and template content.
//   - Literal payloads are decoded once, by the lexer, into Token.Value.
//   - There is no '>>' kind: A<B<C>> closes two generic lists with two '>'.
package token
