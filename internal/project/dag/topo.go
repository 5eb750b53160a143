package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"lazy/internal/project"
)

type Topo struct {
	Order   []ModuleID   // importers before the modules they import
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  []ModuleID // узлы, оставшиеся в цикле
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

// ToposortKahn orders present modules by Kahn's algorithm. Ties are broken
// by ID, so the result depends only on the graph.
func ToposortKahn(g Graph) *Topo {
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]ModuleID, 0, len(g.Edges))}

	var current []ModuleID
	active := 0
	for i, present := range g.Present {
		if !present {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	for len(current) > 0 {
		topo.Batches = append(topo.Batches, current)
		var next []ModuleID
		for _, id := range current {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[id] {
				if !g.Present[to] {
					continue
				}
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i, present := range g.Present {
			if present && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}

// DependenciesFirst returns Order reversed: every module after the modules
// it imports. Modules left in a cycle are appended in ID order.
func (t *Topo) DependenciesFirst() []ModuleID {
	out := make([]ModuleID, 0, len(t.Order)+len(t.Cycles))
	for i := len(t.Order) - 1; i >= 0; i-- {
		out = append(out, t.Order[i])
	}
	return append(out, t.Cycles...)
}

// ModuleHashes fills ModuleHash in dependency order. Edges into a cycle
// see whatever hash the target has at that point.
func ModuleHashes(g Graph, slots []project.ModuleMeta, topo *Topo) {
	for _, id := range topo.DependenciesFirst() {
		var deps []project.Digest
		for _, to := range g.Edges[id] {
			if g.Present[to] {
				deps = append(deps, slots[to].ModuleHash)
			}
		}
		slots[id].ModuleHash = project.Combine(slots[id].ContentHash, deps...)
	}
}
