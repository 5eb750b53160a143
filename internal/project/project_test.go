package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	writeFile(t, manifest, `
[package]
name = "demo"
root = "src"
entry = "app/main"

[diagnostics]
max = 20
color = "off"
`)
	writeFile(t, filepath.Join(dir, "src", "app", "main.lazy"), "main { }")

	m, err := LoadManifest(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if m.Package.Name != "demo" || m.Diagnostics.Max != 20 || m.Diagnostics.Color != "off" {
		t.Fatalf("manifest = %+v", m)
	}
	root, err := m.SourceRoot()
	if err != nil || root != filepath.Join(dir, "src") {
		t.Fatalf("SourceRoot = %q, %v", root, err)
	}
	entry, err := m.EntryPath()
	if err != nil || entry != filepath.Join(dir, "src", "app", "main.lazy") {
		t.Fatalf("EntryPath = %q, %v", entry, err)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
		text    string
	}{
		{"no package", "[diagnostics]\nmax = 1\n", ErrPackageSectionMissing, ""},
		{"no name", "[package]\nroot = \".\"\n", ErrPackageNameMissing, ""},
		{"unknown key", "[package]\nname = \"x\"\nentyr = \"main\"\n", nil, "unknown key"},
		{"bad color", "[package]\nname = \"x\"\n[diagnostics]\ncolor = \"pink\"\n", nil, "invalid [diagnostics].color"},
		{"bad toml", "[package\n", nil, "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.text)
			}
		})
	}
}

func TestResolveRootRejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolveRoot(dir, "../outside"); err == nil {
		t.Fatal("escaping root accepted")
	}
	if _, err := ResolveRoot(dir, "/abs"); err == nil {
		t.Fatal("absolute root accepted")
	}
	if got, err := ResolveRoot(dir, "."); err != nil || got != dir {
		t.Fatalf("ResolveRoot(.) = %q, %v", got, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestName), "[package]\nname = \"x\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := FindManifest(nested)
	if err != nil || !ok || path != filepath.Join(dir, ManifestName) {
		t.Fatalf("FindManifest = %q, %v, %v", path, ok, err)
	}
	root, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || root != dir {
		t.Fatalf("FindProjectRoot = %q, %v, %v", root, ok, err)
	}
}

func TestNormalizeModulePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a/b.lazy", "a/b", false},
		{`a\b`, "a/b", false},
		{"/root/m.lazy", "root/m", false},
		{"a//b", "", true},
		{"a/../b", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeModulePath(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("NormalizeModulePath(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestModuleName(t *testing.T) {
	root := filepath.Join(string(filepath.Separator)+"proj", "src")
	if got := ModuleName(root, filepath.ToSlash(filepath.Join(root, "lib", "util.lazy"))); got != "lib/util" {
		t.Fatalf("inside root = %q", got)
	}
	if got := ModuleName(root, "/elsewhere/x.lazy"); got != "elsewhere/x" {
		t.Fatalf("outside root = %q", got)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b, c := Sum([]byte("a")), Sum([]byte("b")), Sum([]byte("c"))
	if Combine(a, b, c) == Combine(a, c, b) {
		t.Fatal("dependency order must matter")
	}
	if len(a.Short()) != 12 || len(a.String()) != 64 {
		t.Fatal("unexpected hex lengths")
	}
}
