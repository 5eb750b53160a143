package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/project"
	"lazy/internal/source"
	"lazy/internal/token"
	"lazy/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path    string
	FileID  ast.FileID
	Builder *ast.Builder // nil, если файл не прочитан
	Bag     *diag.Bag
}

// ListSourceFiles возвращает отсортированный список всех *.lazy файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(path, project.SourceExt) {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func jobLimit(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

// preload reads every file into one FileSet up front; later work only
// needs read access. Files that fail to load get an IO diagnostic.
func preload(fileSet *source.FileSet, files []string) (map[string]source.FileID, map[string]error) {
	ids := make(map[string]source.FileID, len(files))
	errs := make(map[string]error)
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			errs[path] = err
			continue
		}
		ids[path] = id
	}
	return ids, errs
}

func loadFailure(path string, err error) diag.Diagnostic {
	return diag.Errorf(diag.IOLoadFileError, source.Span{}, path, err.Error()).WithoutHighlight()
}

// TokenizeDir токенизирует все *.lazy файлы в директории параллельно
func TokenizeDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, []TokenizeDirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "tokenize", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	fileIDs, loadErrors := preload(fileSet, files)
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(maxDiagnostics)
			results[i] = TokenizeDirResult{Path: path, Bag: bag}
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(loadFailure(path, loadErr))
				return nil
			}
			fileID := fileIDs[path]
			lx := lexer.New(fileSet.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			results[i].FileID = fileID
			results[i].Tokens = lx.All()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// ParseDir парсит все *.lazy файлы в директории параллельно. Все деревья
// разделяют один interner.
func ParseDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, *source.Interner, []ParseDirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	interner := source.NewInterner()
	if len(files) == 0 {
		return fileSet, interner, nil, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	fileIDs, loadErrors := preload(fileSet, files)
	results := make([]ParseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(maxDiagnostics)
			results[i] = ParseDirResult{Path: path, Bag: bag}
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(loadFailure(path, loadErr))
				return nil
			}
			builder := ast.NewBuilder(ast.Hints{}, interner)
			fileAST, err := parseInto(gctx, fileSet, fileSet.Get(fileIDs[path]), builder, bag, maxDiagnostics)
			if err != nil {
				return err
			}
			results[i].Builder = builder
			results[i].FileID = fileAST
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, interner, results, err
	}
	return fileSet, interner, results, nil
}
