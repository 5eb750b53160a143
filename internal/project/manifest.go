package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing from lazy.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates an empty [package].name.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Package is the [package] table.
type Package struct {
	Name string `toml:"name"`
	// Root is the source directory, relative to the manifest. Default ".".
	Root string `toml:"root"`
	// Entry is the module holding main, relative to Root.
	Entry string `toml:"entry"`
}

// Diagnostics is the [diagnostics] table; CLI flags override it.
type Diagnostics struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"`
}

// Manifest is a parsed lazy.toml.
type Manifest struct {
	Package     Package     `toml:"package"`
	Diagnostics Diagnostics `toml:"diagnostics"`

	// Path is where the manifest was read from.
	Path string `toml:"-"`
}

// LoadManifest parses and validates lazy.toml at path. Unknown keys are
// rejected so typos do not pass silently.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	m.Path = path
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !IsValidModuleIdent(m.Package.Name) {
		return nil, fmt.Errorf("%s: invalid package name %q", path, m.Package.Name)
	}
	if strings.TrimSpace(m.Package.Root) == "" {
		m.Package.Root = "."
	}
	switch m.Diagnostics.Color {
	case "", "auto", "on", "off":
	default:
		return nil, fmt.Errorf("%s: invalid [diagnostics].color %q (expected: auto|on|off)", path, m.Diagnostics.Color)
	}
	if m.Diagnostics.Max < 0 {
		return nil, fmt.Errorf("%s: [diagnostics].max must not be negative", path)
	}
	return &m, nil
}

// Dir is the directory holding the manifest.
func (m *Manifest) Dir() string { return filepath.Dir(m.Path) }

// SourceRoot resolves [package].root against the manifest directory.
func (m *Manifest) SourceRoot() (string, error) {
	return ResolveRoot(m.Dir(), m.Package.Root)
}

// EntryPath is the entry module's file path, or "" when none is declared.
func (m *Manifest) EntryPath() (string, error) {
	if strings.TrimSpace(m.Package.Entry) == "" {
		return "", nil
	}
	root, err := m.SourceRoot()
	if err != nil {
		return "", err
	}
	entry := filepath.Join(root, filepath.FromSlash(m.Package.Entry))
	if filepath.Ext(entry) == "" {
		entry += SourceExt
	}
	if !pathWithin(root, entry) {
		return "", fmt.Errorf("invalid [package].entry %q: escapes the source root", m.Package.Entry)
	}
	return entry, nil
}

// ResolveRoot resolves and validates a source root relative to dir.
func ResolveRoot(dir, root string) (string, error) {
	root = strings.TrimSpace(root)
	if filepath.IsAbs(root) {
		return "", fmt.Errorf("invalid [package].root %q: must be relative", root)
	}
	rootPath := filepath.Join(dir, filepath.Clean(filepath.FromSlash(root)))
	if rootPath != filepath.Clean(dir) && !pathWithin(dir, rootPath) {
		return "", fmt.Errorf("invalid [package].root %q: escapes the project directory", root)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid [package].root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [package].root %q: not a directory", root)
	}
	return rootPath, nil
}
