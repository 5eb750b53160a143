package host

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/symbols"
	"lazy/internal/trace"
)

// ErrNoBuilder is returned by GetOrCreate before Attach was called.
var ErrNoBuilder = errors.New("host: no module builder attached")

// Builder turns a resolved path into a module. A nil module means the
// source had errors; the diagnostics say which.
type Builder interface {
	Build(ctx context.Context, path string) (*symbols.Module, []diag.Diagnostic)
}

type Options struct {
	Provider  Provider
	FileSet   *source.FileSet
	Allocator *symbols.Allocator
	Table     *symbols.Table
}

// entry is one module load; done is closed once the other fields are final.
type entry struct {
	key   string
	owner *task
	done  chan struct{}
	mod   *symbols.Module
	diags []diag.Diagnostic
	err   error
}

// task is one goroutine's stack of nested builds. waiting is the in-flight
// load it is blocked on; guarded by Host.mu.
type task struct {
	waiting *entry
}

type taskKey struct{}

// CycleError is returned by GetOrCreate instead of waiting forever: the
// requested load is blocked, directly or through other loads, on a module
// the caller is building.
type CycleError struct {
	// Via lists the in-flight paths from the requested one to the one
	// owned by the caller.
	Via []string
}

func (e *CycleError) Error() string {
	return "import cycle through " + strings.Join(e.Via, " -> ")
}

// Host owns the sources, the symbol table and the module cache of one
// compilation. Safe for concurrent use.
type Host struct {
	provider Provider
	files    *source.FileSet
	alloc    *symbols.Allocator
	table    *symbols.Table
	builder  Builder

	mu      sync.Mutex
	modules map[string]*entry
	entry   string // path of the module that claimed main

	srcMu   sync.Mutex
	sources map[string]source.FileID
}

func New(opts Options) *Host {
	if opts.Provider == nil {
		opts.Provider = FSProvider{}
	}
	if opts.FileSet == nil {
		opts.FileSet = source.NewFileSet()
	}
	if opts.Allocator == nil {
		opts.Allocator = symbols.NewAllocator()
	}
	if opts.Table == nil {
		opts.Table = symbols.NewTable(symbols.Hints{})
	}
	return &Host{
		provider: opts.Provider,
		files:    opts.FileSet,
		alloc:    opts.Allocator,
		table:    opts.Table,
		modules:  make(map[string]*entry),
		sources:  make(map[string]source.FileID),
	}
}

// Attach sets the builder used for cache misses.
func (h *Host) Attach(b Builder) { h.builder = b }

func (h *Host) Resolve(path string) string { return h.provider.Resolve(path) }

func (h *Host) FileSet() *source.FileSet { return h.files }

func (h *Host) Table() *symbols.Table { return h.table }

func (h *Host) AllocateSymbolID() symbols.SymbolID { return h.alloc.Next() }

// Source reads path once and keeps it in the file set; later calls return
// the same file.
func (h *Host) Source(path string) (*source.File, error) {
	key := h.Resolve(path)
	h.srcMu.Lock()
	defer h.srcMu.Unlock()
	if id, ok := h.sources[key]; ok {
		return h.files.Get(id), nil
	}
	data, err := h.provider.ReadFile(key)
	if err != nil {
		return nil, err
	}
	var flags source.FileFlags
	if v, ok := h.provider.(interface{ Virtual() bool }); ok && v.Virtual() {
		flags = source.FileVirtual
	}
	id := h.files.AddNormalized(key, data, flags)
	h.sources[key] = id
	return h.files.Get(id), nil
}

// FileContents returns the normalised text of path.
func (h *Host) FileContents(path string) ([]byte, error) {
	f, err := h.Source(path)
	if err != nil {
		return nil, err
	}
	return f.Content, nil
}

// GetOrCreate returns the cached module for path or builds it. Concurrent
// callers for a path that is still loading wait for that load, unless that
// load waits on the caller; then a *CycleError is returned.
func (h *Host) GetOrCreate(ctx context.Context, path string) (*symbols.Module, []diag.Diagnostic, error) {
	key := h.Resolve(path)
	cur, _ := ctx.Value(taskKey{}).(*task)
	if cur == nil {
		cur = &task{}
		ctx = context.WithValue(ctx, taskKey{}, cur)
	}

	h.mu.Lock()
	if e, ok := h.modules[key]; ok {
		select {
		case <-e.done:
			h.mu.Unlock()
			return e.mod, e.diags, e.err
		default:
		}
		if via, stuck := h.blockedOn(e, cur); stuck {
			h.mu.Unlock()
			return nil, nil, &CycleError{Via: via}
		}
		cur.waiting = e
		h.mu.Unlock()
		defer func() {
			h.mu.Lock()
			cur.waiting = nil
			h.mu.Unlock()
		}()

		trace.Point(trace.FromContext(ctx), trace.ScopeModule, "wait", trace.CurrentSpan(ctx).SpanID, key)
		select {
		case <-e.done:
			return e.mod, e.diags, e.err
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	e := &entry{key: key, owner: cur, done: make(chan struct{})}
	h.modules[key] = e
	h.mu.Unlock()
	defer close(e.done)

	if h.builder == nil {
		e.err = ErrNoBuilder
		return nil, nil, e.err
	}
	if _, err := h.Source(key); err != nil {
		e.err = err
		return nil, nil, err
	}
	e.mod, e.diags = h.builder.Build(ctx, key)
	return e.mod, e.diags, nil
}

// blockedOn follows the wait-for chain from the in-flight load e. It
// reports the paths passed when the chain ends at cur. Caller holds h.mu.
func (h *Host) blockedOn(e *entry, cur *task) ([]string, bool) {
	via := []string{e.key}
	for t := e.owner; t != nil; t = t.waiting.owner {
		if t == cur {
			return via, true
		}
		if t.waiting == nil || len(via) > len(h.modules) {
			return nil, false
		}
		via = append(via, t.waiting.key)
	}
	return nil, false
}

// Get returns a finished, successfully built module.
func (h *Host) Get(path string) (*symbols.Module, bool) {
	e, ok := h.finished(h.Resolve(path))
	if !ok || e.mod == nil {
		return nil, false
	}
	return e.mod, true
}

// Diagnostics returns what the load of path reported.
func (h *Host) Diagnostics(path string) []diag.Diagnostic {
	e, ok := h.finished(h.Resolve(path))
	if !ok {
		return nil
	}
	return e.diags
}

// Err returns the IO error of a finished load of path, if any.
func (h *Host) Err(path string) error {
	e, ok := h.finished(h.Resolve(path))
	if !ok {
		return nil
	}
	return e.err
}

// Paths lists every path a load was started for, sorted.
func (h *Host) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Sorted(maps.Keys(h.modules))
}

func (h *Host) finished(key string) (*entry, bool) {
	h.mu.Lock()
	e, ok := h.modules[key]
	h.mu.Unlock()
	if !ok {
		return nil, false
	}
	select {
	case <-e.done:
		return e, true
	default:
		return nil, false
	}
}

// Entry returns the path of the module that claimed main.
func (h *Host) Entry() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entry, h.entry != ""
}

// ClaimEntry records path as the module holding main. The first claimer
// wins; a different path gets the owner back with false.
func (h *Host) ClaimEntry(path string) (string, bool) {
	key := h.Resolve(path)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entry == "" {
		h.entry = key
	}
	return h.entry, h.entry == key
}
