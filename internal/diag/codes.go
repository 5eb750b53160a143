package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexInvalidChar         Code = 1001
	LexConfusable          Code = 1002
	LexEndOfString         Code = 1003
	LexUnterminatedComment Code = 1004
	LexInvalidDigit        Code = 1005
	LexExtraDecimalPoint   Code = 1006
	LexNumberTooLarge      Code = 1007
	LexEmptyChar           Code = 1008
	LexCharTooLong         Code = 1009
	LexEndOfChar           Code = 1010
	LexBadEscape           Code = 1011
	LexPointlessTemplate   Code = 1012
	LexTokenTooLong        Code = 1013

	// Парсерные
	SynInfo                  Code = 2000
	SynUnexpectedToken       Code = 2001
	SynExpectSemicolon       Code = 2002
	SynExpectIdentifier      Code = 2003
	SynExpectExpression      Code = 2004
	SynExpectType            Code = 2005
	SynUnclosedParen         Code = 2006
	SynUnclosedBrace         Code = 2007
	SynUnclosedBracket       Code = 2008
	SynUnclosedAngle         Code = 2009
	SynUnexpectedTopLevel    Code = 2010
	SynTooManyEntryPoints    Code = 2011
	SynExportMain            Code = 2012
	SynImportExpectFrom      Code = 2013
	SynImportExpectPath      Code = 2014
	SynImportAliasNotAllowed Code = 2015
	SynConstNeedsValue       Code = 2016
	SynDuplicateAnnotation   Code = 2017
	SynFnTypeNotAllowed      Code = 2018
	SynNestedGenericParam    Code = 2019
	SynIncorrectMatchArm     Code = 2020
	SynYieldOutsideBlock     Code = 2021
	SynExpectFatArrow        Code = 2022
	SynExpectIn              Code = 2023
	SynExpectFor             Code = 2024
	SynBadPattern            Code = 2025
	SynExpectColon           Code = 2026
	SynTrailingInterpolation Code = 2027
	SynJumpOutsideLoop       Code = 2028

	// Связывание модулей
	SemInfo                Code = 3000
	SemDuplicateIdentifier Code = 3001
	SemNotFoundFromModule  Code = 3002
	SemImportCycle         Code = 3003
	SemDependencyFailed    Code = 3004
	SemTooManyEntryPoints  Code = 3005
	SemUnknownImplTarget   Code = 3006

	// IO
	IOLoadFileError  Code = 4001
	IOModuleNotFound Code = 4002

	// Проект
	PrjManifestInvalid Code = 5001
)

// catalog maps each code to its title and message template.
// '$' slots are filled positionally by Template.Format.
var catalog = map[Code]struct{ title, format string }{
	UnknownCode:            {"Unknown error", "$"},
	LexInfo:                {"Lexical information", "$"},
	LexInvalidChar:         {"Invalid character", "invalid character '$'"},
	LexConfusable:          {"Confusable character", "found '$' ($), did you mean '$'?"},
	LexEndOfString:         {"Unterminated string", "unexpected end of input inside $"},
	LexUnterminatedComment: {"Unterminated block comment", "block comment is never closed"},
	LexInvalidDigit:        {"Invalid digit", "invalid digit '$' in $ literal"},
	LexExtraDecimalPoint:   {"Extra decimal point", "number literal already has a decimal point"},
	LexNumberTooLarge:      {"Number too large", "number literal '$' does not fit in 64 bits"},
	LexEmptyChar:           {"Empty char", "char literal must contain exactly one character"},
	LexCharTooLong:         {"Char too long", "char literal contains $ characters, expected one"},
	LexEndOfChar:           {"Unterminated char", "char literal is never closed"},
	LexBadEscape:           {"Unknown escape", "unknown escape sequence '\\$'"},
	LexPointlessTemplate:   {"Pointless template", "template string has no interpolations, use a plain string"},
	LexTokenTooLong:        {"Token too long", "token is longer than $ bytes"},

	SynInfo:                  {"Syntax information", "$"},
	SynUnexpectedToken:       {"Unexpected token", "unexpected $, expected $"},
	SynExpectSemicolon:       {"Expect semicolon", "expected ';' after $"},
	SynExpectIdentifier:      {"Expect identifier", "expected identifier $"},
	SynExpectExpression:      {"Expect expression", "expected expression, found $"},
	SynExpectType:            {"Expect type", "expected type, found $"},
	SynUnclosedParen:         {"Unclosed parenthesis", "expected ')' to close $"},
	SynUnclosedBrace:         {"Unclosed brace", "expected '}' to close $"},
	SynUnclosedBracket:       {"Unclosed bracket", "expected ']' to close $"},
	SynUnclosedAngle:         {"Unclosed angle bracket", "expected '>' to close $"},
	SynUnexpectedTopLevel:    {"Unexpected top level", "expected a declaration, found $"},
	SynTooManyEntryPoints:    {"Too many entry points", "a file may declare only one main block"},
	SynExportMain:            {"Export main", "main cannot be exported"},
	SynImportExpectFrom:      {"Import without from", "expected 'from' after import list"},
	SynImportExpectPath:      {"Import path", "expected module path string after 'from'"},
	SynImportAliasNotAllowed: {"Import alias not allowed", "module alias is only allowed with 'import *'"},
	SynConstNeedsValue:       {"Const without value", "const '$' must be initialised"},
	SynDuplicateAnnotation:   {"Duplicate annotation", "'$' already has a type annotation"},
	SynFnTypeNotAllowed:      {"Fn type not allowed", "'fn' function types are not allowed here"},
	SynNestedGenericParam:    {"Nested generic parameter", "generic parameter '$' cannot have its own parameters"},
	SynIncorrectMatchArm:     {"Incorrect match arm", "$ is not allowed as a match pattern"},
	SynYieldOutsideBlock:     {"Yield outside block", "'yield' is only allowed inside a block"},
	SynExpectFatArrow:        {"Expect fat arrow", "expected '=>' after match pattern"},
	SynExpectIn:              {"Expect in", "expected 'in' after for variable"},
	SynExpectFor:             {"Expect for", "expected 'for' after impl capability"},
	SynBadPattern:            {"Bad pattern", "expected identifier, '[' or '{' pattern, found $"},
	SynExpectColon:           {"Expect colon", "expected ':' after $"},
	SynTrailingInterpolation: {"Trailing interpolation tokens", "unexpected $ after interpolated expression"},
	SynJumpOutsideLoop:       {"Jump outside loop", "'$' outside of a loop"},

	SemInfo:                {"Semantic information", "$"},
	SemDuplicateIdentifier: {"Duplicate identifier", "duplicate identifier '$'"},
	SemNotFoundFromModule:  {"Not found from module", "'$' is not exported from \"$\""},
	SemImportCycle:         {"Import cycle", "import cycle: $"},
	SemDependencyFailed:    {"Dependency failed", "module \"$\" has errors"},
	SemTooManyEntryPoints:  {"Too many entry points", "main already declared in \"$\""},
	SemUnknownImplTarget:   {"Unknown impl target", "impl target '$' is not declared in this module"},

	IOLoadFileError:  {"File load error", "cannot read \"$\": $"},
	IOModuleNotFound: {"Module not found", "module \"$\" not found"},

	PrjManifestInvalid: {"Invalid manifest", "invalid lazy.toml: $"},
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	entry, ok := catalog[c]
	if !ok {
		return catalog[UnknownCode].title
	}
	return entry.title
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Template returns the catalog entry for c.
func (c Code) Template() Template {
	entry, ok := catalog[c]
	if !ok {
		entry = catalog[UnknownCode]
	}
	return Template{Code: c, Format: entry.format}
}

// Format fills the code's message template.
func (c Code) Format(args ...any) string {
	return c.Template().Fill(args...)
}
