package dag

import (
	"maps"
	"slices"

	"lazy/internal/project"
)

type ModuleID uint32

type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects every module path, loaded or only imported, and
// numbers them in sorted order.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep != "" {
				uniq[dep] = struct{}{}
			}
		}
	}
	paths := slices.Sorted(maps.Keys(uniq))
	idx := ModuleIndex{
		NameToID: make(map[string]ModuleID, len(paths)),
		IDToName: paths,
	}
	for i, path := range paths {
		idx.NameToID[path] = toID(i)
	}
	return idx
}
