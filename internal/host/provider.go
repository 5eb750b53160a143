package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// Ext is the source file extension appended to extension-less import paths.
const Ext = ".lazy"

// ErrNotFound is wrapped by providers when a path has no file behind it.
var ErrNotFound = errors.New("module not found")

// Provider maps import paths to file contents.
type Provider interface {
	// Resolve canonicalises path; equal results name the same module.
	Resolve(path string) string
	ReadFile(path string) ([]byte, error)
}

// FSProvider reads modules from disk. Relative paths are resolved against
// BaseDir, the working directory when empty.
type FSProvider struct {
	BaseDir string
}

func (p FSProvider) Resolve(name string) string {
	if filepath.Ext(name) == "" {
		name += Ext
	}
	if !filepath.IsAbs(name) {
		base := p.BaseDir
		if base == "" {
			if wd, err := os.Getwd(); err == nil {
				base = wd
			}
		}
		name = filepath.Join(base, name)
	}
	return filepath.ToSlash(filepath.Clean(name))
}

func (p FSProvider) ReadFile(name string) ([]byte, error) {
	// #nosec G304 -- module paths come from the user's sources
	data, err := os.ReadFile(filepath.FromSlash(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// MemProvider serves pre-seeded sources; used by tests and tooling.
type MemProvider struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemProvider(files map[string]string) *MemProvider {
	p := &MemProvider{files: make(map[string][]byte, len(files))}
	for name, text := range files {
		p.Add(name, text)
	}
	return p
}

// Add stores or replaces a file.
func (p *MemProvider) Add(name, text string) {
	p.mu.Lock()
	p.files[p.Resolve(name)] = []byte(text)
	p.mu.Unlock()
}

func (p *MemProvider) Resolve(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	if path.Ext(name) == "" {
		name += Ext
	}
	return name
}

func (p *MemProvider) ReadFile(name string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.files[p.Resolve(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// Virtual marks files of this provider as not coming from disk.
func (p *MemProvider) Virtual() bool { return true }
