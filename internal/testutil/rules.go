// Package testutil provides test helpers for loading the shipped rule tables
// and building catalog fixtures from them.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cory-johannsen/herocalc/internal/game/ruleset"
)

// RulesDir returns the absolute path of the shipped content/rules directory.
//
// Postcondition: Returns an existing directory or fails the test.
func RulesDir(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("locating testutil source file")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "content", "rules")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("rules directory %s: %v", dir, err)
	}
	return dir
}

// LoadCatalog loads the shipped rule tables.
//
// Postcondition: Returns a fully loaded catalog or fails the test.
func LoadCatalog(t testing.TB) *ruleset.Catalog {
	t.Helper()
	cat, err := ruleset.LoadCatalog(RulesDir(t))
	if err != nil {
		t.Fatalf("loading shipped rules: %v", err)
	}
	return cat
}

// CopyRules copies the shipped rule tables into a temporary directory and
// replaces the tables named in overrides with the given YAML content. An
// empty override removes the table.
//
// Postcondition: Returns the fixture directory, removed when the test ends.
func CopyRules(t testing.TB, overrides map[string]string) string {
	t.Helper()
	src := RulesDir(t)
	dst := t.TempDir()
	for _, name := range ruleset.RequiredFiles {
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if content, ok := overrides[name]; ok {
			if content == "" {
				continue
			}
			data = []byte(content)
		}
		if err := os.WriteFile(filepath.Join(dst, name), data, 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dst
}

// CatalogWith loads the shipped tables with the given tables replaced.
//
// Postcondition: Returns a loaded catalog or fails the test.
func CatalogWith(t testing.TB, overrides map[string]string) *ruleset.Catalog {
	t.Helper()
	cat, err := ruleset.LoadCatalog(CopyRules(t, overrides))
	if err != nil {
		t.Fatalf("loading fixture rules: %v", err)
	}
	return cat
}
