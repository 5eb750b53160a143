package project

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// SourceExt is the extension of source files.
const SourceExt = ".lazy"

// ModuleMeta is the graph-level view of one loaded module.
type ModuleMeta struct {
	Path        string   // host path of the module
	Imports     []string // host paths, source order
	ContentHash Digest   // hash of the normalised source
	ModuleHash  Digest   // content plus every dependency's ModuleHash
	Broken      bool     // the module did not build
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var errInvalidModulePath = errors.New("invalid module path")

// NormalizeModulePath приводит путь модуля к виду "a/b": без расширения
// .lazy, с прямыми слэшами; пустые сегменты, "." и ".." запрещены.
func NormalizeModulePath(path string) (string, error) {
	path = strings.TrimSuffix(strings.ReplaceAll(path, "\\", "/"), SourceExt)
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", errInvalidModulePath
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", errInvalidModulePath
		}
	}
	return strings.Join(segments, "/"), nil
}

// ModuleName renders a host path relative to root as "a/b". Paths outside
// root keep their full normalised form.
func ModuleName(root, path string) string {
	name := filepath.ToSlash(path)
	if root != "" {
		if rel, err := filepath.Rel(root, filepath.FromSlash(path)); err == nil && pathWithin(root, filepath.Join(root, rel)) {
			name = filepath.ToSlash(rel)
		}
	}
	if norm, err := NormalizeModulePath(name); err == nil {
		return norm
	}
	return name
}
