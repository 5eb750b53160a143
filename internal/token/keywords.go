package token

var keywords = map[string]Kind{
	"let":      KwLet,
	"const":    KwConst,
	"fn":       KwFn,
	"if":       KwIf,
	"else":     KwElse,
	"for":      KwFor,
	"in":       KwIn,
	"while":    KwWhile,
	"match":    KwMatch,
	"new":      KwNew,
	"await":    KwAwait,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"type":     KwType,
	"static":   KwStatic,
	"main":     KwMain,
	"export":   KwExport,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"impl":     KwImpl,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"yield":    KwYield,
	"true":     BoolLit,
	"false":    BoolLit,
	"none":     NoneLit,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: только lowercase.
// true/false/none map to literal kinds, not keyword kinds.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
