package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lazy/internal/diag"
	"lazy/internal/project"
	"lazy/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты синтаксического прохода по хэшу содержимого
// файла. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what the parse pre-pass learned about one file.
type DiskPayload struct {
	Schema      uint16
	Path        string
	ContentHash project.Digest
	Broken      bool // синтаксические ошибки есть
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with file-relative offsets; every span of
// it lies in the cached file.
type CachedDiagnostic struct {
	Severity  uint8
	Code      uint16
	Message   string
	Start     uint32
	End       uint32
	Highlight bool
	Notes     []CachedNote
	Fixes     []CachedFix
}

type CachedNote struct {
	Start, End uint32
	Msg        string
}

type CachedFix struct {
	Title string
	Edits []CachedEdit
}

type CachedEdit struct {
	Start, End uint32
	NewText    string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey identifies a pre-pass result: the content plus every option that
// changes what the parser reports.
func CacheKey(content project.Digest, maxDiagnostics int) project.Digest {
	opts := strconv.Itoa(int(diskCacheSchemaVersion)) + "/" + strconv.Itoa(maxDiagnostics)
	return project.Combine(content, project.Sum([]byte(opts)))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства чистки - подкаталог "parse".
	return filepath.Join(c.dir, "parse", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema is a
// miss, not an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("disk cache %s: %w", key.Short(), err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// encodeDiagnostics converts diagnostics of file into the cached form. It
// fails when any span points into another file.
func encodeDiagnostics(file source.FileID, diags []diag.Diagnostic) ([]CachedDiagnostic, bool) {
	out := make([]CachedDiagnostic, 0, len(diags))
	for _, d := range diags {
		if d.HasLocation() && d.Primary.File != file {
			return nil, false
		}
		cd := CachedDiagnostic{
			Severity:  uint8(d.Severity),
			Code:      uint16(d.Code),
			Message:   d.Message,
			Start:     d.Primary.Start,
			End:       d.Primary.End,
			Highlight: d.Highlight,
		}
		for _, n := range d.Notes {
			if n.Span.File != file {
				return nil, false
			}
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				if e.Span.File != file {
					return nil, false
				}
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		out = append(out, cd)
	}
	return out, true
}

// decodeDiagnostics rebinds cached diagnostics to file.
func decodeDiagnostics(file source.FileID, cached []CachedDiagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(cached))
	for _, cd := range cached {
		d := diag.Diagnostic{
			Severity:  diag.Severity(cd.Severity),
			Code:      diag.Code(cd.Code),
			Message:   cd.Message,
			Primary:   source.Span{File: file, Start: cd.Start, End: cd.End},
			Highlight: cd.Highlight,
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: file, Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			fix := diag.Fix{Title: cf.Title}
			for _, e := range cf.Edits {
				fix.Edits = append(fix.Edits, diag.FixEdit{Span: source.Span{File: file, Start: e.Start, End: e.End}, NewText: e.NewText})
			}
			d.Fixes = append(d.Fixes, fix)
		}
		out = append(out, d)
	}
	return out
}
