package dag

import (
	"slices"

	"lazy/internal/project"
)

// Graph has an edge from every importer to each module it imports.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to, sorted, no duplicates
	Indeg   []int        // входящие степени, только от присутствующих модулей
	Present []bool       // модуль загружен, а не только упомянут в импорте
}

// BuildGraph indexes metas into a graph. Self-imports and edges to unknown
// modules are dropped; the loader has already reported them.
func BuildGraph(idx ModuleIndex, metas []project.ModuleMeta) (Graph, []project.ModuleMeta) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	slots := make([]project.ModuleMeta, n)
	for i, name := range idx.IDToName {
		slots[i].Path = name
	}
	for _, meta := range metas {
		id, ok := idx.NameToID[meta.Path]
		if !ok || g.Present[id] {
			continue
		}
		slots[id] = meta
		g.Present[id] = true
	}

	for from := range slots {
		if !g.Present[from] {
			continue
		}
		for _, dep := range slots[from].Imports {
			to, ok := idx.NameToID[dep]
			if !ok || int(to) == from || slices.Contains(g.Edges[from], to) {
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
			if g.Present[to] {
				g.Indeg[to]++
			}
		}
		slices.Sort(g.Edges[from])
	}
	return g, slots
}
