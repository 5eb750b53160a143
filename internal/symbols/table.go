package symbols

import (
	"fmt"
	"slices"
	"sync"
)

// Table owns every symbol of a host. Modules reference symbols by ID only.
// Safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	syms map[SymbolID]*Symbol
}

// Hints provide optional capacity suggestions.
type Hints struct{ Symbols uint }

func NewTable(h Hints) *Table {
	return &Table{syms: make(map[SymbolID]*Symbol, h.Symbols)}
}

// Insert stores sym under its pre-allocated ID. Reusing an ID is an
// internal invariant violation.
func (t *Table) Insert(sym *Symbol) error {
	if sym == nil || !sym.ID.IsValid() {
		return fmt.Errorf("symbols: insert of invalid symbol %+v", sym)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.syms[sym.ID]; ok {
		return fmt.Errorf("symbols: id %d already used by %q", sym.ID, prev.Name)
	}
	t.syms[sym.ID] = sym
	return nil
}

// Get returns a snapshot copy of the symbol.
func (t *Table) Get(id SymbolID) (Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sym, ok := t.syms[id]
	if !ok {
		return Symbol{}, false
	}
	out := *sym
	out.TypeParams = slices.Clone(sym.TypeParams)
	out.Instances = slices.Clone(sym.Instances)
	out.Impls = slices.Clone(sym.Impls)
	return out, true
}

// Has reports whether id is stored.
func (t *Table) Has(id SymbolID) bool {
	t.mu.RLock()
	_, ok := t.syms[id]
	t.mu.RUnlock()
	return ok
}

// AddImpl attaches an impl reference to a stored symbol.
func (t *Table) AddImpl(id SymbolID, ref ImplRef) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sym, ok := t.syms[id]
	if !ok {
		return false
	}
	sym.Impls = append(sym.Impls, ref)
	return true
}

// AddInstance records a realized generic instance once per distinct
// argument list.
func (t *Table) AddInstance(id SymbolID, inst Instance) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sym, ok := t.syms[id]
	if !ok {
		return false
	}
	key := inst.Key()
	for _, have := range sym.Instances {
		if have.Key() == key {
			return false
		}
	}
	sym.Instances = append(sym.Instances, inst)
	return true
}

// Len reports the number of stored symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.syms)
}

// IDs returns every stored ID in ascending order.
func (t *Table) IDs() []SymbolID {
	t.mu.RLock()
	ids := make([]SymbolID, 0, len(t.syms))
	for id := range t.syms {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	slices.Sort(ids)
	return ids
}
