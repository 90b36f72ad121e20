package testsupport

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-catalog-cache/internal/catalogdb"
)

//go:embed testdata/*.json
var catalogFixtures embed.FS

// CatalogFixture is the shared sample catalog used across package tests.
type CatalogFixture struct {
	Movies []catalogdb.Movie `json:"movies"`
	Actors []catalogdb.Actor `json:"actors"`
	Genres []catalogdb.Genre `json:"genres"`
}

// LoadCatalog returns the embedded sample catalog. Records carry their ids.
func LoadCatalog(t testing.TB) CatalogFixture {
	t.Helper()

	data, err := catalogFixtures.ReadFile("testdata/catalog.json")
	if err != nil {
		t.Fatalf("failed to read catalog fixture: %v", err)
	}

	var fixture CatalogFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("failed to unmarshal catalog fixture: %v", err)
	}
	return fixture
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// CompareWithGolden compares a cache payload with a golden file. A missing golden
// file is created from actual.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.Fatalf("failed to read golden file %s: %v", path, err)
		}
		t.Logf("golden file %s does not exist, creating it", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(path, actual, 0o644); err != nil {
			t.Fatalf("failed to write golden file %s: %v", path, err)
		}
		return
	}

	if string(actual) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
