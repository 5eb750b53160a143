package symbols

import (
	"strings"

	"lazy/internal/source"
)

// SymbolKind classifies what declared a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolStruct
	SymbolEnum
	SymbolTypeAlias
	SymbolStatic
	// SymbolNamespace is bound by "import * from ... as name".
	SymbolNamespace
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTypeAlias:
		return "type"
	case SymbolStatic:
		return "static"
	case SymbolNamespace:
		return "namespace"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagExported SymbolFlags = 1 << iota
	SymbolFlagGeneric
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 2)
	if f&SymbolFlagExported != 0 {
		labels = append(labels, "exported")
	}
	if f&SymbolFlagGeneric != 0 {
		labels = append(labels, "generic")
	}
	return labels
}

// ImplRef records "impl Capability for <symbol>" found in some module.
type ImplRef struct {
	Capability string
	Module     string
	Span       source.Span
}

// Instance is one realized use of a generic symbol, e.g. Box<Int>.
type Instance struct {
	Args   []string
	Module string
	Span   source.Span
}

// Key renders the argument list; equal keys denote the same instance.
func (i Instance) Key() string {
	return "<" + strings.Join(i.Args, ", ") + ">"
}

// Symbol describes a named module-level entity. Symbols are owned by the
// Table; everything else refers to them by ID.
type Symbol struct {
	ID         SymbolID
	Name       string
	Kind       SymbolKind
	Flags      SymbolFlags
	Module     string // path of the declaring module
	Span       source.Span
	TypeParams []string
	Instances  []Instance
	Impls      []ImplRef
	// Target is the module path a namespace symbol stands for.
	Target string
}
