package symbols

import (
	"maps"
	"slices"
)

// Module is the symbol view of one source file: Local holds every visible
// name, Exported the re-exported subset. Built once by the loader and
// read-only afterwards.
type Module struct {
	Path     string
	Local    map[string]SymbolID
	Exported map[string]SymbolID
	// Imports lists imported module paths in source order.
	Imports  []string
	HasEntry bool
}

func NewModule(path string) *Module {
	return &Module{
		Path:     path,
		Local:    make(map[string]SymbolID),
		Exported: make(map[string]SymbolID),
	}
}

// Lookup resolves a visible name.
func (m *Module) Lookup(name string) (SymbolID, bool) {
	if m == nil {
		return NoSymbolID, false
	}
	id, ok := m.Local[name]
	return id, ok
}

// LookupExported resolves a name another module may import.
func (m *Module) LookupExported(name string) (SymbolID, bool) {
	if m == nil {
		return NoSymbolID, false
	}
	id, ok := m.Exported[name]
	return id, ok
}

// Bind makes id visible under name. When the name is taken the previous
// binding is kept and returned with false.
func (m *Module) Bind(name string, id SymbolID) (SymbolID, bool) {
	if prev, ok := m.Local[name]; ok {
		return prev, false
	}
	m.Local[name] = id
	return id, true
}

// Export adds an already bound name to Exported.
func (m *Module) Export(name string) bool {
	id, ok := m.Local[name]
	if !ok {
		return false
	}
	m.Exported[name] = id
	return true
}

// Names returns the local names sorted.
func (m *Module) Names() []string {
	return slices.Sorted(maps.Keys(m.Local))
}

// ExportedNames returns the exported names sorted.
func (m *Module) ExportedNames() []string {
	return slices.Sorted(maps.Keys(m.Exported))
}
