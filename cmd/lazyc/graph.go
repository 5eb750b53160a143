package main

import (
	"fmt"
	"io"
	"strings"

	"lazy/internal/driver"
)

type moduleJSON struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Hash    string   `json:"hash"`
	Imports []string `json:"imports,omitempty"`
	Broken  bool     `json:"broken,omitempty"`
	Cyclic  bool     `json:"cyclic,omitempty"`
}

func buildModulesJSON(mods []driver.ModuleInfo) []moduleJSON {
	names := moduleNames(mods)
	out := make([]moduleJSON, 0, len(mods))
	for _, m := range mods {
		out = append(out, moduleJSON{
			Name:    m.Name,
			Path:    m.Path,
			Hash:    m.Hash.String(),
			Imports: importNames(m, names),
			Broken:  m.Broken,
			Cyclic:  m.Cyclic,
		})
	}
	return out
}

func moduleNames(mods []driver.ModuleInfo) map[string]string {
	names := make(map[string]string, len(mods))
	for _, m := range mods {
		names[m.Path] = m.Name
	}
	return names
}

func importNames(m driver.ModuleInfo, names map[string]string) []string {
	out := make([]string, 0, len(m.Imports))
	for _, imp := range m.Imports {
		if n, ok := names[imp]; ok {
			out = append(out, n)
		} else {
			out = append(out, imp)
		}
	}
	return out
}

// writeGraph prints modules dependencies first:
//
//	== modules ==
//	  3f2a9c1e  lib/point
//	  9b01d4aa  main -> lib/point   (entry)
func writeGraph(w io.Writer, result *driver.DiagnoseResult, fullPaths bool) error {
	names := moduleNames(result.Modules)
	if _, err := fmt.Fprintln(w, "== modules =="); err != nil {
		return err
	}
	for _, m := range result.Modules {
		name := m.Name
		if fullPaths {
			name = m.Path
		}
		line := fmt.Sprintf("  %s  %s", m.Hash.Short(), name)
		if imports := importNames(m, names); len(imports) > 0 {
			line += " -> " + strings.Join(imports, ", ")
		}
		var marks []string
		if m.Path == result.Entry {
			marks = append(marks, "entry")
		}
		if m.Broken {
			marks = append(marks, "broken")
		}
		if m.Cyclic {
			marks = append(marks, "cycle")
		}
		if len(marks) > 0 {
			line += "   (" + strings.Join(marks, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
