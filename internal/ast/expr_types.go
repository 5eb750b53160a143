package ast

import (
	"lazy/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprInvalid is a recoverable gap left by a malformed token.
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprTemplate
	ExprUnary
	ExprBinary
	ExprGroup
	ExprTuple
	ExprBlock
	ExprDecl
	ExprFn
	ExprIf
	ExprWhile
	ExprFor
	ExprMatch
	ExprNew
	ExprAwait
	ExprSpread
	ExprRange
	ExprMember
	ExprPath
	ExprIndex
	ExprCall
	ExprOptional
	ExprReturn
	ExprBreak
	ExprContinue
	ExprYield
)

var exprKindNames = [...]string{
	ExprInvalid: "Invalid", ExprIdent: "Ident", ExprLit: "Lit", ExprTemplate: "Template",
	ExprUnary: "Unary", ExprBinary: "Binary", ExprGroup: "Group", ExprTuple: "Tuple",
	ExprBlock: "Block", ExprDecl: "Decl", ExprFn: "Fn", ExprIf: "If", ExprWhile: "While",
	ExprFor: "For", ExprMatch: "Match", ExprNew: "New", ExprAwait: "Await",
	ExprSpread: "Spread", ExprRange: "Range", ExprMember: "Member", ExprPath: "Path",
	ExprIndex: "Index", ExprCall: "Call", ExprOptional: "Optional", ExprReturn: "Return",
	ExprBreak: "Break", ExprContinue: "Continue", ExprYield: "Yield",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr?"
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprIdentData struct {
	Name source.StringID
}

// ExprLitKind enumerates literal families.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitChar
	ExprLitBool
	ExprLitNone
)

// ExprLiteralData keeps the decoded value; Raw is the source spelling.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Raw   string
	Int   uint64
	Float float64
	Str   string
	Char  rune
	Bool  bool
}

// TemplatePart splices Value into the template text at byte Offset.
type TemplatePart struct {
	Offset uint32
	Value  ExprID
}

type ExprTemplateData struct {
	Text  string
	Parts []TemplatePart
}

type ExprUnaryOp uint8

const (
	ExprUnaryNeg    ExprUnaryOp = iota // -
	ExprUnaryNot                       // !
	ExprUnaryBitNot                    // ~
)

func (op ExprUnaryOp) String() string {
	return [...]string{"-", "!", "~"}[op]
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprBinaryOp enumerates binary operator kinds, assignments included.
type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryAssign
	ExprBinaryAddAssign
	ExprBinarySubAssign
	ExprBinaryMulAssign
	ExprBinaryDivAssign
	ExprBinaryModAssign
	ExprBinaryBitAndAssign
	ExprBinaryBitOrAssign
	ExprBinaryBitXorAssign
	ExprBinaryShlAssign
)

var binaryOpText = [...]string{
	"+", "-", "*", "/", "%", "&", "|", "^", "<<", "&&", "||",
	"==", "!=", "<", "<=", ">", ">=",
	"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsAssign reports plain and compound assignment.
func (op ExprBinaryOp) IsAssign() bool {
	return op >= ExprBinaryAssign
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// ExprWrapData is the payload of single-child expressions: group, await,
// spread, optional '?', return and yield (Value may be NoExprID for the last two).
type ExprWrapData struct {
	Value ExprID
}

type ExprTupleData struct {
	Elements []ExprID
}

// ExprBlockData: Tail is the trailing expression without ';' (block value).
type ExprBlockData struct {
	Stmts []ExprID
	Tail  ExprID
}

// PatternKind enumerates declaration destructuring shapes.
type PatternKind uint8

const (
	PatternIdent PatternKind = iota
	PatternTuple
	PatternStruct
)

// Pattern is owned by value by its declaration.
type Pattern struct {
	Kind PatternKind
	Span source.Span
	Name source.StringID // PatternIdent
	// PatternTuple: Elems; a trailing "...rest" sets Rest.
	Elems []Pattern
	Rest  source.StringID
	// PatternStruct: field name -> nested pattern (shorthand binds the field name).
	Fields []PatternField
}

type PatternField struct {
	Name    source.StringID
	Span    source.Span
	Binding Pattern
}

type ExprDeclData struct {
	Const   bool
	Pattern Pattern
	Type    TypeID
	Value   ExprID
}

// GenericParam is "T" or "T: Bound" in a declaration's <...> list.
type GenericParam struct {
	Name  source.StringID
	Span  source.Span
	Bound TypeID
}

type FnParam struct {
	Name    source.StringID
	Span    source.Span
	Type    TypeID
	Default ExprID
	Rest    bool
}

type ExprFnData struct {
	Generics []GenericParam
	Params   []FnParam
	Result   TypeID
	Body     ExprID
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprWhileData struct {
	Cond ExprID
	Body ExprID
}

type ExprForData struct {
	Var     source.StringID
	VarSpan source.Span
	Iter    ExprID
	Body    ExprID
}

// MatchArm: Patterns are alternatives joined by '|'.
type MatchArm struct {
	Span     source.Span
	Patterns []ExprID
	Guard    ExprID
	Body     ExprID
}

type ExprMatchData struct {
	Value ExprID
	Arms  []MatchArm
}

// FieldInit is "name: value" in new-expressions and impl bodies.
// Shorthand "name" gets an ExprIdent value of its own.
type FieldInit struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ExprID
}

type ExprNewData struct {
	Target TypeID
	Fields []FieldInit
}

type ExprRangeData struct {
	Start     ExprID
	End       ExprID
	Inclusive bool
}

// ExprMemberData: Arrow marks "a->b".
type ExprMemberData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
	Arrow    bool
}

// ExprPathData is module-path access "a:b" (or "a::b").
type ExprPathData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}
