package parser

import (
	"lazy/internal/ast"
	"lazy/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет; все операторы левоассоциативны,
// присваивание тоже.
const (
	precNone           = 0
	precAssignment     = 1  // = += -= *= /= %= &= |= ^= <<=
	precBitwise        = 2  // & | ^
	precShift          = 3  // <<
	precLogicalOr      = 5  // ||
	precLogicalAnd     = 7  // &&
	precComparison     = 10 // == != < <= > >=
	precAdditive       = 15 // + -
	precMultiplicative = 20 // * / %
)

var binaryOps = map[token.Kind]struct {
	prec int
	op   ast.ExprBinaryOp
}{
	token.Assign:        {precAssignment, ast.ExprBinaryAssign},
	token.PlusAssign:    {precAssignment, ast.ExprBinaryAddAssign},
	token.MinusAssign:   {precAssignment, ast.ExprBinarySubAssign},
	token.StarAssign:    {precAssignment, ast.ExprBinaryMulAssign},
	token.SlashAssign:   {precAssignment, ast.ExprBinaryDivAssign},
	token.PercentAssign: {precAssignment, ast.ExprBinaryModAssign},
	token.AmpAssign:     {precAssignment, ast.ExprBinaryBitAndAssign},
	token.PipeAssign:    {precAssignment, ast.ExprBinaryBitOrAssign},
	token.CaretAssign:   {precAssignment, ast.ExprBinaryBitXorAssign},
	token.ShlAssign:     {precAssignment, ast.ExprBinaryShlAssign},

	token.Amp:   {precBitwise, ast.ExprBinaryBitAnd},
	token.Pipe:  {precBitwise, ast.ExprBinaryBitOr},
	token.Caret: {precBitwise, ast.ExprBinaryBitXor},
	token.Shl:   {precShift, ast.ExprBinaryShiftLeft},

	token.OrOr:   {precLogicalOr, ast.ExprBinaryLogicalOr},
	token.AndAnd: {precLogicalAnd, ast.ExprBinaryLogicalAnd},

	token.EqEq:   {precComparison, ast.ExprBinaryEq},
	token.BangEq: {precComparison, ast.ExprBinaryNotEq},
	token.Lt:     {precComparison, ast.ExprBinaryLess},
	token.LtEq:   {precComparison, ast.ExprBinaryLessEq},
	token.Gt:     {precComparison, ast.ExprBinaryGreater},
	token.GtEq:   {precComparison, ast.ExprBinaryGreaterEq},

	token.Plus:    {precAdditive, ast.ExprBinaryAdd},
	token.Minus:   {precAdditive, ast.ExprBinarySub},
	token.Star:    {precMultiplicative, ast.ExprBinaryMul},
	token.Slash:   {precMultiplicative, ast.ExprBinaryDiv},
	token.Percent: {precMultiplicative, ast.ExprBinaryMod},
}

// binaryPrec возвращает приоритет оператора или precNone.
func binaryPrec(k token.Kind) int {
	if e, ok := binaryOps[k]; ok {
		return e.prec
	}
	return precNone
}

func unaryOp(k token.Kind) (ast.ExprUnaryOp, bool) {
	switch k {
	case token.Minus:
		return ast.ExprUnaryNeg, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	case token.Tilde:
		return ast.ExprUnaryBitNot, true
	default:
		return 0, false
	}
}

// startsExpr reports whether k can begin an expression.
func startsExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.TemplateLit,
		token.CharLit, token.BoolLit, token.NoneLit, token.Invalid,
		token.Minus, token.Bang, token.Tilde, token.DotDot, token.DotDotEq, token.DotDotDot,
		token.LParen, token.LBracket, token.LBrace,
		token.KwLet, token.KwConst, token.KwFn, token.KwIf, token.KwFor, token.KwWhile,
		token.KwMatch, token.KwNew, token.KwAwait, token.KwReturn, token.KwBreak,
		token.KwContinue, token.KwYield:
		return true
	default:
		return false
	}
}
