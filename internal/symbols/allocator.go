package symbols

import (
	"math"
	"sync/atomic"
)

// Allocator hands out monotonic symbol IDs starting at 1. Safe for
// concurrent use; one allocator is shared by every module of a host.
type Allocator struct {
	last atomic.Uint32
}

func NewAllocator() *Allocator { return &Allocator{} }

// Next returns a fresh ID. Running out of the 32-bit space is an internal
// invariant violation.
func (a *Allocator) Next() SymbolID {
	id := a.last.Add(1)
	if id == 0 || id == math.MaxUint32 {
		panic("symbols: id space exhausted")
	}
	return SymbolID(id)
}

// Last reports the most recently allocated ID (NoSymbolID if none).
func (a *Allocator) Last() SymbolID {
	return SymbolID(a.last.Load())
}
