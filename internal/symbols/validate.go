package symbols

import (
	"errors"
	"fmt"
)

// Validate checks the module invariants against the table: Exported is a
// subset of Local and every referenced ID is stored. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (m *Module) Validate(t *Table) error {
	var errs []error
	for _, name := range m.ExportedNames() {
		id := m.Exported[name]
		local, ok := m.Local[name]
		if !ok {
			errs = append(errs, fmt.Errorf("module %q exports %q which is not local", m.Path, name))
			continue
		}
		if local != id {
			errs = append(errs, fmt.Errorf("module %q exports %q as %d but binds it to %d", m.Path, name, id, local))
		}
	}
	if t != nil {
		for _, name := range m.Names() {
			id := m.Local[name]
			if !t.Has(id) {
				errs = append(errs, fmt.Errorf("module %q binds %q to unknown symbol %d", m.Path, name, id))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
