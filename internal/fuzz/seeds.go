package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
)

// languageSeeds cover every statement form and the literal edge cases.
var languageSeeds = []string{
	"",
	"main {}\n",
	"static x = 1 + 2 * 3;",
	"export struct Point<T: Num> { x: T, y: T }",
	"enum Shape { Dot, Circle: Int }",
	"type F = fn(Int) -> Int?;",
	"import {a, b as c} from \"m\";\nimport * from \"n\" as n;",
	"impl Show for Point<Int> { show: fn(self) { self.x } }",
	"#inline\nstatic a = 0x1F + 0o17 + 0b101 + 1_000 + 5s + 1.5m;",
	"main { `Hello ${1+1} and ${`nested ${x}`}`; }",
	"main { let [a, ...rest] = xs; let {x, y: py} = p; }",
	"main { match x { 1 | 2 => a, 3..=9 => b, color:Red => c, _ => d } }",
	"main { for i in 0..10 { while a { if b { break; } continue; } } }",
	"static c = 'x' + '' + 'ab';",
	"static s = \"unterminated",
	"static w = a；",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.lazy файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".lazy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
