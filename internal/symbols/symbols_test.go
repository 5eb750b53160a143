package symbols

import (
	"sync"
	"testing"
)

func TestAllocatorMonotonicFromOne(t *testing.T) {
	a := NewAllocator()
	if a.Last() != NoSymbolID {
		t.Fatalf("fresh allocator Last = %d", a.Last())
	}
	first := a.Next()
	second := a.Next()
	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", first, second)
	}
}

func TestAllocatorConcurrentUnique(t *testing.T) {
	a := NewAllocator()
	const workers, per = 8, 100
	ids := make(chan SymbolID, workers*per)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range per {
				ids <- a.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)
	seen := make(map[SymbolID]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
	if a.Last() != workers*per {
		t.Fatalf("Last = %d, want %d", a.Last(), workers*per)
	}
}

func TestTableInsertRejectsReuse(t *testing.T) {
	table := NewTable(Hints{})
	if err := table.Insert(&Symbol{ID: 1, Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert(&Symbol{ID: 1, Name: "B"}); err == nil {
		t.Fatal("reusing an id must fail")
	}
	if err := table.Insert(&Symbol{Name: "C"}); err == nil {
		t.Fatal("NoSymbolID must be rejected")
	}
	sym, ok := table.Get(1)
	if !ok || sym.Name != "A" {
		t.Fatalf("Get(1) = %+v, %v", sym, ok)
	}
}

func TestTableInstancesDeduplicated(t *testing.T) {
	table := NewTable(Hints{})
	_ = table.Insert(&Symbol{ID: 7, Name: "Box", TypeParams: []string{"T"}})
	if !table.AddInstance(7, Instance{Args: []string{"Int"}}) {
		t.Fatal("first instance must be recorded")
	}
	if table.AddInstance(7, Instance{Args: []string{"Int"}}) {
		t.Fatal("repeated instance must be ignored")
	}
	table.AddInstance(7, Instance{Args: []string{"Str"}})
	table.AddImpl(7, ImplRef{Capability: "Show", Module: "a"})

	sym, _ := table.Get(7)
	if len(sym.Instances) != 2 || sym.Instances[1].Key() != "<Str>" {
		t.Fatalf("instances = %+v", sym.Instances)
	}
	if len(sym.Impls) != 1 {
		t.Fatalf("impls = %+v", sym.Impls)
	}
	// snapshot must not alias table storage
	sym.Impls[0].Capability = "changed"
	again, _ := table.Get(7)
	if again.Impls[0].Capability != "Show" {
		t.Fatal("Get leaked internal slice")
	}
}

func TestModuleBindAndExport(t *testing.T) {
	table := NewTable(Hints{})
	_ = table.Insert(&Symbol{ID: 1, Name: "A"})
	_ = table.Insert(&Symbol{ID: 2, Name: "A"})

	m := NewModule("a.lazy")
	if _, ok := m.Bind("A", 1); !ok {
		t.Fatal("first bind must succeed")
	}
	if prev, ok := m.Bind("A", 2); ok || prev != 1 {
		t.Fatalf("second bind = %d, %v; want 1, false", prev, ok)
	}
	if m.Export("B") {
		t.Fatal("cannot export an unbound name")
	}
	m.Export("A")
	if id, ok := m.LookupExported("A"); !ok || id != 1 {
		t.Fatalf("exported A = %d", id)
	}
	if err := m.Validate(table); err != nil {
		t.Fatal(err)
	}

	m.Exported["ghost"] = 9
	if err := m.Validate(table); err == nil {
		t.Fatal("export outside Local must fail validation")
	}
}
