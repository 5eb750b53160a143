package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/host"
	"lazy/internal/lexer"
	"lazy/internal/loader"
	"lazy/internal/observ"
	"lazy/internal/parser"
	"lazy/internal/project"
	"lazy/internal/project/dag"
	"lazy/internal/source"
	"lazy/internal/trace"
)

type DiagnoseOptions struct {
	// BaseDir anchors relative imports and relative output paths; empty
	// means the working directory (DiagnoseDir: the directory itself).
	BaseDir        string
	MaxDiagnostics int
	Jobs           int
	Cache          *DiskCache // nil отключает кэш синтаксического прохода
	Progress       ProgressSink
	Timer          *observ.Timer
}

// ModuleInfo is one node of the loaded module graph.
type ModuleInfo struct {
	Path    string // host path
	Name    string // "a/b" relative to the base directory
	Imports []string
	Hash    project.Digest // content plus dependencies
	Broken  bool
	Cyclic  bool
}

type DiagnoseResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	// Modules lists loaded modules, every module after its imports.
	Modules []ModuleInfo
	// Entry is the path of the module declaring main, if any.
	Entry string
	// CacheHits counts files whose pre-pass came from the disk cache.
	CacheHits int
}

type session struct {
	opts   DiagnoseOptions
	base   string
	host   *host.Host
	loader *loader.Loader
	bag    *diag.Bag
	// skip holds paths whose diagnostics were already taken from the pre-pass.
	skip map[string]bool
}

func newSession(opts DiagnoseOptions) (*session, error) {
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	h := host.New(host.Options{
		Provider: host.FSProvider{BaseDir: base},
		FileSet:  source.NewFileSetWithBase(base),
	})
	l := loader.New(h, loader.Options{MaxErrors: maxErrors, Strings: source.NewInterner()})
	h.Attach(l)
	return &session{
		opts:   opts,
		base:   base,
		host:   h,
		loader: l,
		bag:    diag.NewBag(opts.MaxDiagnostics),
		skip:   make(map[string]bool),
	}, nil
}

func (s *session) phase(name string) func(note string) {
	if s.opts.Timer == nil {
		return func(string) {}
	}
	idx := s.opts.Timer.Begin(name)
	return func(note string) { s.opts.Timer.End(idx, note) }
}

// Diagnose loads every root and its imports through one host and reports
// the diagnostics of every module reached.
func Diagnose(ctx context.Context, roots []string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		p, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		abs = append(abs, filepath.ToSlash(p))
	}
	return s.run(ctx, abs, 0)
}

// DiagnoseDir diagnoses every source file under dir. A parallel syntax
// pre-pass runs first; files with syntax errors report only those and are
// not loaded as roots.
func DiagnoseDir(ctx context.Context, dir string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	if opts.BaseDir == "" {
		opts.BaseDir = dir
	}
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	files, err := ListSourceFiles(absDir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageRead, Status: StatusQueued})
	}

	done := s.phase("parse")
	pre, err := s.prepass(ctx, files)
	if err != nil {
		return nil, err
	}
	roots := make([]string, 0, len(files))
	hits := 0
	for i, path := range files {
		r := pre[i]
		if r.cached {
			hits++
		}
		if r.broken {
			s.bag.Extend(r.diags)
			s.skip[s.host.Resolve(path)] = true
			continue
		}
		roots = append(roots, path)
	}
	done(fmt.Sprintf("%d files, %d cached", len(files), hits))

	return s.run(ctx, roots, hits)
}

type prepassResult struct {
	diags  []diag.Diagnostic
	broken bool
	cached bool
}

// prepass reads and parses files in parallel. Sources go into the host, so
// the load phase reuses them and spans agree.
func (s *session) prepass(ctx context.Context, files []string) ([]prepassResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "prepass", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	// Чтение последовательно: FileID идут в порядке путей, вывод стабилен.
	for _, path := range files {
		_, _ = s.host.Source(path)
	}

	results := make([]prepassResult, len(files))
	names := source.NewInterner()
	var cacheErr error
	var errMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(s.opts.Jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			emit(s.opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
			r, err := s.prepassFile(gctx, path, names)
			if err != nil {
				errMu.Lock()
				cacheErr = err
				errMu.Unlock()
			}
			results[i] = r
			status := StatusDone
			if r.broken {
				status = StatusError
			}
			emit(s.opts.Progress, Event{File: path, Stage: StageParse, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cacheErr != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache error", span.ID(), cacheErr.Error())
	}
	return results, nil
}

// prepassFile returns the syntax diagnostics of one file. Cache problems are
// returned as err alongside a valid result; they never fail the run.
func (s *session) prepassFile(ctx context.Context, path string, names *source.Interner) (prepassResult, error) {
	file, err := s.host.Source(path)
	if err != nil {
		return prepassResult{diags: []diag.Diagnostic{loader.IODiagnostic(path, err)}, broken: true}, nil
	}

	key := CacheKey(project.Digest(file.Hash), s.opts.MaxDiagnostics)
	var payload DiskPayload
	hit, cacheErr := s.opts.Cache.Get(key, &payload)
	if hit && payload.ContentHash == project.Digest(file.Hash) {
		return prepassResult{
			diags:  decodeDiagnostics(file.ID, payload.Diagnostics),
			broken: payload.Broken,
			cached: true,
		}, cacheErr
	}

	rep := &diag.SliceReporter{}
	maxErrors, err := safecast.Conv[uint](max(s.opts.MaxDiagnostics, 0))
	if err != nil {
		return prepassResult{}, err
	}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	parser.ParseFile(ctx, s.host.FileSet(), lx, ast.NewBuilder(ast.Hints{}, names), parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
	})
	diags := rep.Items()
	r := prepassResult{diags: diags, broken: diag.HasErrors(diags)}

	if s.opts.Cache != nil {
		if cached, ok := encodeDiagnostics(file.ID, diags); ok {
			putErr := s.opts.Cache.Put(key, &DiskPayload{
				Path:        path,
				ContentHash: project.Digest(file.Hash),
				Broken:      r.broken,
				Diagnostics: cached,
			})
			if putErr != nil {
				cacheErr = putErr
			}
		}
	}
	return r, cacheErr
}

func (s *session) run(ctx context.Context, roots []string, cacheHits int) (*DiagnoseResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx).SpanID).
		WithExtra("roots", fmt.Sprint(len(roots)))
	ctx = trace.WithSpan(ctx, span)

	done := s.phase("load")
	for _, root := range roots {
		started := time.Now()
		emit(s.opts.Progress, Event{File: root, Stage: StageLoad, Status: StatusWorking})
		mod, diags := s.loader.Load(ctx, root)
		if s.host.Err(root) != nil {
			s.bag.Extend(diags)
		}
		status := StatusDone
		if mod == nil {
			status = StatusError
		}
		emit(s.opts.Progress, Event{File: root, Stage: StageLoad, Status: status, Elapsed: time.Since(started)})
	}
	for _, path := range s.host.Paths() {
		if s.skip[path] {
			continue
		}
		s.bag.Extend(s.host.Diagnostics(path))
	}
	done(fmt.Sprintf("%d modules", len(s.host.Paths())))
	span.End("")

	done = s.phase("graph")
	modules := s.graph()
	done("")

	s.bag.Sort()
	s.bag.Dedup()

	entry, _ := s.host.Entry()
	return &DiagnoseResult{
		FileSet:   s.host.FileSet(),
		Bag:       s.bag,
		Modules:   modules,
		Entry:     entry,
		CacheHits: cacheHits,
	}, nil
}

// graph orders the loaded modules and hashes each with its dependencies.
func (s *session) graph() []ModuleInfo {
	var metas []project.ModuleMeta
	for _, path := range s.host.Paths() {
		if s.host.Err(path) != nil {
			continue
		}
		file, err := s.host.Source(path)
		if err != nil {
			continue
		}
		meta := project.ModuleMeta{Path: path, ContentHash: project.Digest(file.Hash)}
		if mod, ok := s.host.Get(path); ok {
			meta.Imports = mod.Imports
		} else {
			meta.Broken = true
		}
		metas = append(metas, meta)
	}

	g, slots := dag.BuildGraph(dag.BuildIndex(metas), metas)
	topo := dag.ToposortKahn(g)
	dag.ModuleHashes(g, slots, topo)

	cyclic := make(map[int]bool, len(topo.Cycles))
	for _, id := range topo.Cycles {
		cyclic[int(id)] = true
	}
	out := make([]ModuleInfo, 0, len(metas))
	for _, id := range topo.DependenciesFirst() {
		meta := slots[id]
		out = append(out, ModuleInfo{
			Path:    meta.Path,
			Name:    project.ModuleName(s.base, meta.Path),
			Imports: meta.Imports,
			Hash:    meta.ModuleHash,
			Broken:  meta.Broken,
			Cyclic:  cyclic[int(id)],
		})
	}
	return out
}
