package ast

import (
	"lazy/internal/source"
)

// TypeKind enumerates typing forms.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeNamed
	TypeGeneric
	TypeFields
	TypeTuple
	TypeFn
	TypeOptional
	TypeIntersection
	TypeImpl
)

var typeKindNames = [...]string{
	TypeInvalid: "Invalid", TypeNamed: "Named", TypeGeneric: "Generic",
	TypeFields: "Fields", TypeTuple: "Tuple", TypeFn: "Fn",
	TypeOptional: "Optional", TypeIntersection: "Intersection", TypeImpl: "Impl",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "Type?"
}

type Type struct {
	Kind    TypeKind
	Span    source.Span
	Payload PayloadID
}

// TypeNamedData: Module is set for module-qualified names (m:T).
type TypeNamedData struct {
	Module source.StringID
	Name   source.StringID
}

// TypeGenericData is a bound generic, Base<Args...>.
type TypeGenericData struct {
	Base TypeID
	Args []TypeID
}

type TypeField struct {
	Name source.StringID
	Span source.Span
	Type TypeID
}

type TypeFieldsData struct {
	Fields []TypeField
}

type TypeTupleData struct {
	Elems []TypeID
}

// TypeFnParam may be unnamed: (Int, Str) -> Bool.
type TypeFnParam struct {
	Name source.StringID
	Span source.Span
	Type TypeID
}

// TypeFnData: Keyword marks the "fn(...) -> T" spelling.
type TypeFnData struct {
	Params  []TypeFnParam
	Result  TypeID
	Keyword bool
}

// TypeWrapData is the payload of optional (T?) and impl T.
type TypeWrapData struct {
	Inner TypeID
}

type TypeIntersectionData struct {
	Parts []TypeID
}

type Types struct {
	Arena         *Arena[Type]
	Named         *Arena[TypeNamedData]
	Generics      *Arena[TypeGenericData]
	Fields        *Arena[TypeFieldsData]
	Tuples        *Arena[TypeTupleData]
	Fns           *Arena[TypeFnData]
	Wraps         *Arena[TypeWrapData]
	Intersections *Arena[TypeIntersectionData]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := capHint / 4
	return &Types{
		Arena:         NewArena[Type](capHint),
		Named:         NewArena[TypeNamedData](capHint),
		Generics:      NewArena[TypeGenericData](small),
		Fields:        NewArena[TypeFieldsData](small),
		Tuples:        NewArena[TypeTupleData](small),
		Fns:           NewArena[TypeFnData](small),
		Wraps:         NewArena[TypeWrapData](small),
		Intersections: NewArena[TypeIntersectionData](small),
	}
}

func (t *Types) new(kind TypeKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (t *Types) Get(id TypeID) *Type {
	return t.Arena.Get(uint32(id))
}

func typePayload[T any](t *Types, id TypeID, arena *Arena[T], kinds ...TypeKind) (*T, bool) {
	typ := t.Get(id)
	if typ == nil {
		return nil, false
	}
	for _, k := range kinds {
		if typ.Kind == k {
			return arena.Get(uint32(typ.Payload)), true
		}
	}
	return nil, false
}

func (t *Types) NewInvalid(span source.Span) TypeID {
	return t.new(TypeInvalid, span, 0)
}

func (t *Types) NewNamed(span source.Span, module, name source.StringID) TypeID {
	return t.new(TypeNamed, span, t.Named.Allocate(TypeNamedData{Module: module, Name: name}))
}

func (t *Types) NamedType(id TypeID) (*TypeNamedData, bool) {
	return typePayload(t, id, t.Named, TypeNamed)
}

func (t *Types) NewGeneric(span source.Span, base TypeID, args []TypeID) TypeID {
	return t.new(TypeGeneric, span, t.Generics.Allocate(TypeGenericData{Base: base, Args: args}))
}

func (t *Types) Generic(id TypeID) (*TypeGenericData, bool) {
	return typePayload(t, id, t.Generics, TypeGeneric)
}

func (t *Types) NewFields(span source.Span, fields []TypeField) TypeID {
	return t.new(TypeFields, span, t.Fields.Allocate(TypeFieldsData{Fields: fields}))
}

func (t *Types) FieldList(id TypeID) (*TypeFieldsData, bool) {
	return typePayload(t, id, t.Fields, TypeFields)
}

func (t *Types) NewTuple(span source.Span, elems []TypeID) TypeID {
	return t.new(TypeTuple, span, t.Tuples.Allocate(TypeTupleData{Elems: elems}))
}

func (t *Types) Tuple(id TypeID) (*TypeTupleData, bool) {
	return typePayload(t, id, t.Tuples, TypeTuple)
}

func (t *Types) NewFn(span source.Span, data TypeFnData) TypeID {
	return t.new(TypeFn, span, t.Fns.Allocate(data))
}

func (t *Types) Fn(id TypeID) (*TypeFnData, bool) {
	return typePayload(t, id, t.Fns, TypeFn)
}

// NewWrap creates T? (TypeOptional) or impl T (TypeImpl).
func (t *Types) NewWrap(kind TypeKind, span source.Span, inner TypeID) TypeID {
	return t.new(kind, span, t.Wraps.Allocate(TypeWrapData{Inner: inner}))
}

func (t *Types) Wrap(id TypeID) (*TypeWrapData, bool) {
	return typePayload(t, id, t.Wraps, TypeOptional, TypeImpl)
}

func (t *Types) NewIntersection(span source.Span, parts []TypeID) TypeID {
	return t.new(TypeIntersection, span, t.Intersections.Allocate(TypeIntersectionData{Parts: parts}))
}

func (t *Types) Intersection(id TypeID) (*TypeIntersectionData, bool) {
	return typePayload(t, id, t.Intersections, TypeIntersection)
}
