package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a malformed token; the parser treats it as a gap.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwLet      // let
	KwConst    // const
	KwFn       // fn
	KwIf       // if
	KwElse     // else
	KwFor      // for
	KwIn       // in
	KwWhile    // while
	KwMatch    // match
	KwNew      // new
	KwAwait    // await
	KwStruct   // struct
	KwEnum     // enum
	KwType     // type
	KwStatic   // static
	KwMain     // main
	KwExport   // export
	KwImport   // import
	KwFrom     // from
	KwAs       // as
	KwImpl     // impl
	KwReturn   // return
	KwBreak    // break
	KwContinue // continue
	KwYield    // yield

	// IntLit is an integer literal; Value.Int holds the decoded number.
	IntLit
	// FloatLit is a float literal; Value.Float holds the decoded number.
	FloatLit
	// StringLit is a "..." literal; Value.Str holds the unescaped text.
	StringLit
	// TemplateLit is a `...` literal with ${} interpolations.
	TemplateLit
	// CharLit is a '.' literal holding exactly one code point.
	CharLit
	// BoolLit is true or false.
	BoolLit
	// NoneLit is the none literal.
	NoneLit

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	ColonColon    // ::
	Dot           // .
	DotDot        // ..
	DotDotEq      // ..=
	DotDotDot     // ...
	Arrow         // ->
	FatArrow      // =>

	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Hash      // #

	kindCount
)

var kindNames = [kindCount]string{
	Invalid: "invalid token", EOF: "end of file", Ident: "identifier",
	KwLet: "let", KwConst: "const", KwFn: "fn", KwIf: "if", KwElse: "else",
	KwFor: "for", KwIn: "in", KwWhile: "while", KwMatch: "match", KwNew: "new",
	KwAwait: "await", KwStruct: "struct", KwEnum: "enum", KwType: "type",
	KwStatic: "static", KwMain: "main", KwExport: "export", KwImport: "import",
	KwFrom: "from", KwAs: "as", KwImpl: "impl", KwReturn: "return",
	KwBreak: "break", KwContinue: "continue", KwYield: "yield",
	IntLit: "integer", FloatLit: "float", StringLit: "string",
	TemplateLit: "template string", CharLit: "char", BoolLit: "boolean", NoneLit: "none",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
	ShlAssign: "<<=", EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=",
	Gt: ">", GtEq: ">=", Shl: "<<", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	AndAnd: "&&", OrOr: "||", Question: "?", Colon: ":", ColonColon: "::",
	Dot: ".", DotDot: "..", DotDotEq: "..=", DotDotDot: "...", Arrow: "->",
	FatArrow: "=>", Semicolon: ";", Comma: ",", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]", Hash: "#",
}

// String returns the source spelling for operators/keywords and a
// human-readable category name for the rest.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Category groups kinds into the families used by tooling output.
func (k Kind) Category() string {
	switch {
	case k == Ident:
		return "identifier"
	case k >= KwLet && k <= KwYield:
		return "keyword"
	case k == BoolLit:
		return "boolean"
	case k == NoneLit:
		return "none"
	case k >= IntLit && k <= CharLit:
		return "literal"
	case k >= Plus && k <= FatArrow:
		return "operator"
	case k >= Semicolon && k <= Hash:
		return "punctuation"
	case k == EOF:
		return "eof"
	default:
		return "invalid"
	}
}
