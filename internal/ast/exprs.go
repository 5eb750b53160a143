package ast

import (
	"lazy/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Idents    *Arena[ExprIdentData]
	Literals  *Arena[ExprLiteralData]
	Templates *Arena[ExprTemplateData]
	Unaries   *Arena[ExprUnaryData]
	Binaries  *Arena[ExprBinaryData]
	Wraps     *Arena[ExprWrapData]
	Tuples    *Arena[ExprTupleData]
	Blocks    *Arena[ExprBlockData]
	Decls     *Arena[ExprDeclData]
	Fns       *Arena[ExprFnData]
	Ifs       *Arena[ExprIfData]
	Whiles    *Arena[ExprWhileData]
	Fors      *Arena[ExprForData]
	Matches   *Arena[ExprMatchData]
	News      *Arena[ExprNewData]
	Ranges    *Arena[ExprRangeData]
	Members   *Arena[ExprMemberData]
	Paths     *Arena[ExprPathData]
	Indices   *Arena[ExprIndexData]
	Calls     *Arena[ExprCallData]
}

// NewExprs creates per-kind arenas; rare kinds get a small fixed capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 8
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Idents:    NewArena[ExprIdentData](capHint),
		Literals:  NewArena[ExprLiteralData](capHint),
		Templates: NewArena[ExprTemplateData](small),
		Unaries:   NewArena[ExprUnaryData](small),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Wraps:     NewArena[ExprWrapData](small),
		Tuples:    NewArena[ExprTupleData](small),
		Blocks:    NewArena[ExprBlockData](small),
		Decls:     NewArena[ExprDeclData](small),
		Fns:       NewArena[ExprFnData](small),
		Ifs:       NewArena[ExprIfData](small),
		Whiles:    NewArena[ExprWhileData](small),
		Fors:      NewArena[ExprForData](small),
		Matches:   NewArena[ExprMatchData](small),
		News:      NewArena[ExprNewData](small),
		Ranges:    NewArena[ExprRangeData](small),
		Members:   NewArena[ExprMemberData](capHint),
		Paths:     NewArena[ExprPathData](small),
		Indices:   NewArena[ExprIndexData](small),
		Calls:     NewArena[ExprCallData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func exprPayload[T any](e *Exprs, id ExprID, arena *Arena[T], kinds ...ExprKind) (*T, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return arena.Get(uint32(expr.Payload)), true
		}
	}
	return nil, false
}

// NewInvalid records a recoverable gap.
func (e *Exprs) NewInvalid(span source.Span) ExprID {
	return e.new(ExprInvalid, span, 0)
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	return exprPayload(e, id, e.Idents, ExprIdent)
}

func (e *Exprs) NewLiteral(span source.Span, data ExprLiteralData) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(data))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	return exprPayload(e, id, e.Literals, ExprLit)
}

func (e *Exprs) NewTemplate(span source.Span, text string, parts []TemplatePart) ExprID {
	return e.new(ExprTemplate, span, e.Templates.Allocate(ExprTemplateData{Text: text, Parts: parts}))
}

func (e *Exprs) Template(id ExprID) (*ExprTemplateData, bool) {
	return exprPayload(e, id, e.Templates, ExprTemplate)
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	return exprPayload(e, id, e.Unaries, ExprUnary)
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	return exprPayload(e, id, e.Binaries, ExprBinary)
}

// NewWrap creates a single-child expression (group, await, spread, optional,
// return, yield).
func (e *Exprs) NewWrap(kind ExprKind, span source.Span, value ExprID) ExprID {
	return e.new(kind, span, e.Wraps.Allocate(ExprWrapData{Value: value}))
}

func (e *Exprs) Wrap(id ExprID) (*ExprWrapData, bool) {
	return exprPayload(e, id, e.Wraps, ExprGroup, ExprAwait, ExprSpread, ExprOptional, ExprReturn, ExprYield)
}

// NewJump creates break/continue.
func (e *Exprs) NewJump(kind ExprKind, span source.Span) ExprID {
	return e.new(kind, span, 0)
}

func (e *Exprs) NewTuple(span source.Span, elements []ExprID) ExprID {
	return e.new(ExprTuple, span, e.Tuples.Allocate(ExprTupleData{Elements: elements}))
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	return exprPayload(e, id, e.Tuples, ExprTuple)
}

func (e *Exprs) NewBlock(span source.Span, stmts []ExprID, tail ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Stmts: stmts, Tail: tail}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	return exprPayload(e, id, e.Blocks, ExprBlock)
}

func (e *Exprs) NewDecl(span source.Span, data ExprDeclData) ExprID {
	return e.new(ExprDecl, span, e.Decls.Allocate(data))
}

func (e *Exprs) Decl(id ExprID) (*ExprDeclData, bool) {
	return exprPayload(e, id, e.Decls, ExprDecl)
}

func (e *Exprs) NewFn(span source.Span, data ExprFnData) ExprID {
	return e.new(ExprFn, span, e.Fns.Allocate(data))
}

func (e *Exprs) Fn(id ExprID) (*ExprFnData, bool) {
	return exprPayload(e, id, e.Fns, ExprFn)
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	return exprPayload(e, id, e.Ifs, ExprIf)
}

func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	return e.new(ExprWhile, span, e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body}))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	return exprPayload(e, id, e.Whiles, ExprWhile)
}

func (e *Exprs) NewFor(span source.Span, data ExprForData) ExprID {
	return e.new(ExprFor, span, e.Fors.Allocate(data))
}

func (e *Exprs) For(id ExprID) (*ExprForData, bool) {
	return exprPayload(e, id, e.Fors, ExprFor)
}

func (e *Exprs) NewMatch(span source.Span, value ExprID, arms []MatchArm) ExprID {
	return e.new(ExprMatch, span, e.Matches.Allocate(ExprMatchData{Value: value, Arms: arms}))
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	return exprPayload(e, id, e.Matches, ExprMatch)
}

func (e *Exprs) NewNew(span source.Span, target TypeID, fields []FieldInit) ExprID {
	return e.new(ExprNew, span, e.News.Allocate(ExprNewData{Target: target, Fields: fields}))
}

func (e *Exprs) New(id ExprID) (*ExprNewData, bool) {
	return exprPayload(e, id, e.News, ExprNew)
}

func (e *Exprs) NewRange(span source.Span, start, end ExprID, inclusive bool) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{Start: start, End: end, Inclusive: inclusive}))
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	return exprPayload(e, id, e.Ranges, ExprRange)
}

func (e *Exprs) NewMember(span source.Span, data ExprMemberData) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(data))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	return exprPayload(e, id, e.Members, ExprMember)
}

func (e *Exprs) NewPath(span source.Span, data ExprPathData) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(data))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	return exprPayload(e, id, e.Paths, ExprPath)
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	return exprPayload(e, id, e.Indices, ExprIndex)
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Target: target, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	return exprPayload(e, id, e.Calls, ExprCall)
}
