// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for paperclean developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects, in
// pipeline order.
var projectDirs = []string{
	"papers",
	"output_cleaned",
	"output_questions",
	"output_docx",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "paperclean"
	cmdPkg  = "./cmd/paperclean"
)

// binPath is the CLI binary the pipeline targets run.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/, stamping the version from
// PAPERCLEAN_VERSION or the current git description.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

func buildVersion() string {
	if v := os.Getenv("PAPERCLEAN_VERSION"); v != "" {
		return v
	}
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		return v
	}
	return "dev"
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check runs go vet and the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints Go production and test line counts per package, then totals.
func Stats() error {
	prod, test, err := countGoLines(".")
	if err != nil {
		return err
	}
	pkgs := make([]string, 0, len(prod))
	for pkg := range prod {
		pkgs = append(pkgs, pkg)
	}
	for pkg := range test {
		if _, ok := prod[pkg]; !ok {
			pkgs = append(pkgs, pkg)
		}
	}
	sort.Strings(pkgs)

	var prodTotal, testTotal int
	fmt.Printf("%-28s %8s %8s\n", "Package", "Prod", "Test")
	for _, pkg := range pkgs {
		fmt.Printf("%-28s %8d %8d\n", pkg, prod[pkg], test[pkg])
		prodTotal += prod[pkg]
		testTotal += test[pkg]
	}
	fmt.Printf("%-28s %8d %8d\n", "total", prodTotal, testTotal)
	return nil
}

// countGoLines walks root and counts non-blank lines in Go files, keyed by
// package directory. Underscore-prefixed and hidden directories are skipped,
// as the go tool does.
func countGoLines(root string) (prod, test map[string]int, err error) {
	prod = map[string]int{}
	test = map[string]int{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		pkg := filepath.Dir(path)
		if strings.HasSuffix(name, "_test.go") {
			test[pkg] += n
		} else {
			prod[pkg] += n
		}
		return nil
	})
	return prod, test, err
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}
