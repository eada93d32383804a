//go:build mage

// Package main contains Mage build targets for ai-homework developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "ai-homework"
	cmdPkg  = "./cmd/ai-homework"

	outputDir  = "output"
	secretsDir = ".secrets"
)

// secretFiles are created empty by Init so the expected names are visible.
var secretFiles = []string{"openai-api-key", "openai-base-url", "openai-model-name"}

// Init creates the output directory and the .secrets/ key files.
func Init() error {
	for _, dir := range []string{outputDir, secretsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	for _, name := range secretFiles {
		path := filepath.Join(secretsDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		fmt.Println("  ", path)
	}
	fmt.Println("Project initialized. Put your API key in .secrets/openai-api-key.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the git version.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Search builds the CLI and searches arXiv for query, printing a table.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search", "--query", query)
}

// Stats prints Go production and test line counts per package directory.
func Stats() error {
	prod := map[string]int{}
	tests := map[string]int{}
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := countLines(string(data))
		dir := filepath.Dir(path)
		if strings.HasSuffix(path, "_test.go") {
			tests[dir] += n
		} else {
			prod[dir] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for d := range prod {
		dirs = append(dirs, d)
	}
	for d := range tests {
		if _, ok := prod[d]; !ok {
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)

	var totalProd, totalTest int
	fmt.Printf("%-28s %8s %8s\n", "package", "prod", "test")
	for _, d := range dirs {
		fmt.Printf("%-28s %8d %8d\n", d, prod[d], tests[d])
		totalProd += prod[d]
		totalTest += tests[d]
	}
	fmt.Printf("%-28s %8d %8d\n", "total", totalProd, totalTest)
	return nil
}

// countLines counts non-blank lines.
func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
