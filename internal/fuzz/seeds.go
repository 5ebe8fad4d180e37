package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var builtinSeeds = []string{
	"",
	"let a = 1\n",
	"import UIKit\n\nfinal class A: B {\n\tvar x: Int?\n}\n",
	"func f(_ a: Int, b: [String: Int]) -> Int? { return a > 0 ? a : nil }\n",
	"let s = \"a \\(b) c\"\nlet t = \"\"\"\n  multi\n  \"\"\"\n",
	"if let x = y, x > 0 { print(x!) } else { fatalError() }\n",
	"switch v {\ncase .a(let x) where x > 1:\n  break\ndefault:\n  break\n}\n",
	"guard let x = f() else { return }\nwhile true { x += 1; }\n",
	"/* unterminated",
	"let x = (1, 2",
	"@objc private static func g<T: Equatable>(x: T) throws -> [T] { [x] }\n",
	"protocol P { associatedtype Item; func next() -> Item? }\nextension Int: P {}\n",
	"let c = { (a: Int) -> Int in a * 2 }\nlet d = arr.map { $0 + 1 }.filter { $0 > 2 }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.swift файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".swift" {
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

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
