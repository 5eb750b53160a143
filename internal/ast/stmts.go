package ast

import (
	"lazy/internal/source"
)

// StmtKind enumerates top-level statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtStruct
	StmtEnum
	StmtTypeAlias
	StmtStatic
	StmtMain
	StmtExport
	StmtImport
	StmtImpl
	StmtAttr
)

var stmtKindNames = [...]string{
	StmtInvalid: "Invalid", StmtStruct: "Struct", StmtEnum: "Enum",
	StmtTypeAlias: "TypeAlias", StmtStatic: "Static", StmtMain: "Main",
	StmtExport: "Export", StmtImport: "Import", StmtImpl: "Impl", StmtAttr: "Attr",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt?"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtStructData struct {
	Name     source.StringID
	NameSpan source.Span
	Generics []GenericParam
	Fields   []TypeField
}

// EnumVariant: Payload is NoTypeID for bare variants.
type EnumVariant struct {
	Name    source.StringID
	Span    source.Span
	Payload TypeID
}

type StmtEnumData struct {
	Name     source.StringID
	NameSpan source.Span
	Generics []GenericParam
	Variants []EnumVariant
}

type StmtTypeAliasData struct {
	Name     source.StringID
	NameSpan source.Span
	Generics []GenericParam
	Type     TypeID
}

type StmtStaticData struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID
	Value    ExprID
}

type StmtMainData struct {
	Body ExprID
}

// StmtWrapData is the payload of export: the wrapped declaration.
type StmtWrapData struct {
	Inner StmtID
}

type ImportItem struct {
	Name      source.StringID
	NameSpan  source.Span
	Alias     source.StringID
	AliasSpan source.Span
}

// StmtImportData covers both import {a, b as c} and import *.
// Alias is the namespace name of "import * from p as alias".
type StmtImportData struct {
	Items     []ImportItem
	Wildcard  bool
	Path      string
	PathSpan  source.Span
	Alias     source.StringID
	AliasSpan source.Span
}

type StmtImplData struct {
	Capability TypeID
	Target     TypeID
	Fields     []FieldInit
}

type StmtAttrData struct {
	Name     source.StringID
	NameSpan source.Span
	Args     []ExprID
	Inner    StmtID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Structs *Arena[StmtStructData]
	Enums   *Arena[StmtEnumData]
	Aliases *Arena[StmtTypeAliasData]
	Statics *Arena[StmtStaticData]
	Mains   *Arena[StmtMainData]
	Wraps   *Arena[StmtWrapData]
	Imports *Arena[StmtImportData]
	Impls   *Arena[StmtImplData]
	Attrs   *Arena[StmtAttrData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := capHint / 4
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Structs: NewArena[StmtStructData](small),
		Enums:   NewArena[StmtEnumData](small),
		Aliases: NewArena[StmtTypeAliasData](small),
		Statics: NewArena[StmtStaticData](small),
		Mains:   NewArena[StmtMainData](1),
		Wraps:   NewArena[StmtWrapData](small),
		Imports: NewArena[StmtImportData](small),
		Impls:   NewArena[StmtImplData](small),
		Attrs:   NewArena[StmtAttrData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func stmtPayload[T any](s *Stmts, id StmtID, arena *Arena[T], kind StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return nil, false
	}
	return arena.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewStruct(span source.Span, data StmtStructData) StmtID {
	return s.new(StmtStruct, span, s.Structs.Allocate(data))
}

func (s *Stmts) Struct(id StmtID) (*StmtStructData, bool) {
	return stmtPayload(s, id, s.Structs, StmtStruct)
}

func (s *Stmts) NewEnum(span source.Span, data StmtEnumData) StmtID {
	return s.new(StmtEnum, span, s.Enums.Allocate(data))
}

func (s *Stmts) Enum(id StmtID) (*StmtEnumData, bool) {
	return stmtPayload(s, id, s.Enums, StmtEnum)
}

func (s *Stmts) NewTypeAlias(span source.Span, data StmtTypeAliasData) StmtID {
	return s.new(StmtTypeAlias, span, s.Aliases.Allocate(data))
}

func (s *Stmts) TypeAlias(id StmtID) (*StmtTypeAliasData, bool) {
	return stmtPayload(s, id, s.Aliases, StmtTypeAlias)
}

func (s *Stmts) NewStatic(span source.Span, data StmtStaticData) StmtID {
	return s.new(StmtStatic, span, s.Statics.Allocate(data))
}

func (s *Stmts) Static(id StmtID) (*StmtStaticData, bool) {
	return stmtPayload(s, id, s.Statics, StmtStatic)
}

func (s *Stmts) NewMain(span source.Span, body ExprID) StmtID {
	return s.new(StmtMain, span, s.Mains.Allocate(StmtMainData{Body: body}))
}

func (s *Stmts) Main(id StmtID) (*StmtMainData, bool) {
	return stmtPayload(s, id, s.Mains, StmtMain)
}

func (s *Stmts) NewExport(span source.Span, inner StmtID) StmtID {
	return s.new(StmtExport, span, s.Wraps.Allocate(StmtWrapData{Inner: inner}))
}

func (s *Stmts) Export(id StmtID) (*StmtWrapData, bool) {
	return stmtPayload(s, id, s.Wraps, StmtExport)
}

func (s *Stmts) NewImport(span source.Span, data StmtImportData) StmtID {
	return s.new(StmtImport, span, s.Imports.Allocate(data))
}

func (s *Stmts) Import(id StmtID) (*StmtImportData, bool) {
	return stmtPayload(s, id, s.Imports, StmtImport)
}

func (s *Stmts) NewImpl(span source.Span, data StmtImplData) StmtID {
	return s.new(StmtImpl, span, s.Impls.Allocate(data))
}

func (s *Stmts) Impl(id StmtID) (*StmtImplData, bool) {
	return stmtPayload(s, id, s.Impls, StmtImpl)
}

func (s *Stmts) NewAttr(span source.Span, data StmtAttrData) StmtID {
	return s.new(StmtAttr, span, s.Attrs.Allocate(data))
}

func (s *Stmts) Attr(id StmtID) (*StmtAttrData, bool) {
	return stmtPayload(s, id, s.Attrs, StmtAttr)
}

// DeclName returns the declared name of struct/enum/type/static statements.
func (s *Stmts) DeclName(id StmtID) (source.StringID, source.Span, bool) {
	st := s.Get(id)
	if st == nil {
		return source.NoStringID, source.Span{}, false
	}
	switch st.Kind {
	case StmtStruct:
		d, _ := s.Struct(id)
		return d.Name, d.NameSpan, true
	case StmtEnum:
		d, _ := s.Enum(id)
		return d.Name, d.NameSpan, true
	case StmtTypeAlias:
		d, _ := s.TypeAlias(id)
		return d.Name, d.NameSpan, true
	case StmtStatic:
		d, _ := s.Static(id)
		return d.Name, d.NameSpan, true
	}
	return source.NoStringID, source.Span{}, false
}

// DeclGenerics returns the generic parameter list of a declaration, if any.
func (s *Stmts) DeclGenerics(id StmtID) []GenericParam {
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtStruct:
		d, _ := s.Struct(id)
		return d.Generics
	case StmtEnum:
		d, _ := s.Enum(id)
		return d.Generics
	case StmtTypeAlias:
		d, _ := s.TypeAlias(id)
		return d.Generics
	}
	return nil
}
