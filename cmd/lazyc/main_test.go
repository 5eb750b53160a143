package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lazy/internal/driver"
	"lazy/internal/project"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs the CLI in-process. Every global flag the commands read is
// passed explicitly because cobra keeps values between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	base := []string{"--color", "off", "--ui", "off", "--quiet=false", "--max-diagnostics", "100"}
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(append(args[:1:1], base...), args[1:]...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadModes(t *testing.T) {
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Fatalf("readUIMode = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("invalid ui mode accepted")
	}
	if m, err := readColorMode(""); err != nil || m != colorAuto {
		t.Fatalf("readColorMode = %v, %v", m, err)
	}
	if _, err := readFormat("sarif", formatPretty, formatJSON); err == nil || !strings.Contains(err.Error(), "pretty|json") {
		t.Fatalf("readFormat error = %v", err)
	}
	if !shouldUseTUI(uiModeOn, true, formatJSON) || shouldUseTUI(uiModeOff, false, formatPretty) {
		t.Fatal("explicit ui modes must win")
	}
	if shouldUseTUI(uiModeAuto, true, formatPretty) {
		t.Fatal("quiet runs have no progress view")
	}
}

func TestResolveDiagTargetFromManifest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lazy.toml":     "[package]\nname = \"demo\"\nroot = \"src\"\nentry = \"app\"\n",
		"src/app.lazy":  "main {}\n",
		"src/util.lazy": "export static one = 1;\n",
	})
	m, err := project.LoadManifest(filepath.Join(dir, "lazy.toml"))
	if err != nil {
		t.Fatal(err)
	}
	target, err := resolveDiagTarget(nil, cliConfig{manifest: m})
	if err != nil {
		t.Fatal(err)
	}
	if target.isDir || filepath.Base(target.path) != "app.lazy" || target.base != filepath.Join(dir, "src") {
		t.Fatalf("target = %+v", target)
	}

	target, err = resolveDiagTarget([]string{filepath.Join(dir, "src", "util.lazy")}, cliConfig{manifest: m})
	if err != nil {
		t.Fatal(err)
	}
	if target.base != filepath.Join(dir, "src") {
		t.Fatalf("file inside the source root resolves imports from it: %+v", target)
	}

	if _, err := resolveDiagTarget(nil, cliConfig{}); err == nil || !strings.Contains(err.Error(), "no lazy.toml") {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteGraph(t *testing.T) {
	var hash project.Digest
	hash[0] = 0xab
	res := &driver.DiagnoseResult{
		Entry: "/p/main.lazy",
		Modules: []driver.ModuleInfo{
			{Path: "/p/lib.lazy", Name: "lib", Hash: hash},
			{Path: "/p/main.lazy", Name: "main", Imports: []string{"/p/lib.lazy"}, Hash: hash},
		},
	}
	var buf bytes.Buffer
	if err := writeGraph(&buf, res, false); err != nil {
		t.Fatal(err)
	}
	want := "== modules ==\n" +
		"  ab0000000000  lib\n" +
		"  ab0000000000  main -> lib   (entry)\n"
	if buf.String() != want {
		t.Fatalf("graph:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDiagCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lib.lazy":  "export struct Point { x: Int }\n",
		"main.lazy": "import {Point} from \"lib\";\nmain { }\n",
		"bad.lazy":  "import {Point, Missing} from \"lib\";\n",
	})

	out, err := execute(t, "diag", "--format", "short", "--graph=false", filepath.Join(dir, "bad.lazy"))
	if !errors.Is(err, errHasErrors) {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "bad.lazy:1:") || !strings.Contains(out, "SEM3002") {
		t.Fatalf("short output:\n%s", out)
	}

	out, err = execute(t, "diag", "--format", "short", "--graph", filepath.Join(dir, "main.lazy"))
	if err != nil {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "main -> lib   (entry)") {
		t.Fatalf("graph missing:\n%s", out)
	}

	out, err = execute(t, "diag", "--format", "json", "--graph=false", filepath.Join(dir, "lib.lazy"))
	if err != nil {
		t.Fatalf("err = %v\n%s", err, out)
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Count != 0 {
		t.Fatalf("json output %q: %v", out, err)
	}
}

func TestTokenizeCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.lazy": "let x = 0x10;"})
	out, err := execute(t, "tokenize", "--format", "pretty", filepath.Join(dir, "a.lazy"))
	if err != nil {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if !strings.Contains(out, `"0x10" at 1:9-1:13 = 16`) {
		t.Fatalf("tokens:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("%q: %v", out, err)
	}
	if payload.Tool != "lazyc" || payload.GitCommit != "unknown" {
		t.Fatalf("payload = %+v", payload)
	}
}
