package scanner

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/storage"
)

func testStore(t *testing.T) *storage.FS {
	t.Helper()
	s, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestScanModule_CountsAndExclusions(t *testing.T) {
	s := testStore(t)
	_ = s.Write("PRJ-api/README.md", []byte("# API module [TODO]"))
	_ = s.Write("PRJ-api/001-PRJ-api-gateway.md", []byte("# Gateway\nsee [auth](PRJ-deployment/002-PRJ-deployment-auth.md)"))
	_ = s.Write("PRJ-api/002-PRJ-api-reserved.md", []byte("reserved"))
	_ = s.Write("PRJ-api/003-PRJ-api-cache.md", []byte("# Cache\n[to-fill]"))
	_ = s.Write("PRJ-api/sub/004-nested.md", []byte("# nested"))

	mod, err := ScanModule(s, "PRJ-api", models.CategoryAPI)
	if err != nil {
		t.Fatalf("ScanModule: %v", err)
	}
	if mod.Name != "PRJ-api" || mod.Category != models.CategoryAPI {
		t.Errorf("module identity = %q/%q", mod.Name, mod.Category)
	}
	want := models.ModuleStats{Total: 3, Placeholder: 1, Template: 2, Completed: 1}
	if mod.Stats != want {
		t.Errorf("stats = %+v, want %+v", mod.Stats, want)
	}
	for _, d := range mod.Documents {
		if d.Name == "README" {
			t.Error("README.md must be excluded")
		}
		if d.Category != models.CategoryAPI {
			t.Errorf("%s: category = %q", d.Name, d.Category)
		}
		if !filepath.IsAbs(d.Path) {
			t.Errorf("%s: path %q is not absolute", d.Name, d.Path)
		}
	}
}

func TestScanModule_DocumentAttributes(t *testing.T) {
	s := testStore(t)
	body := "# Gateway\n[a](x.md) [b](y.png) [c](x.md)\n"
	_ = s.Write("PRJ-api/001-PRJ-api-gateway.md", []byte(body))

	mod, err := ScanModule(s, "PRJ-api", models.CategoryAPI)
	if err != nil {
		t.Fatalf("ScanModule: %v", err)
	}
	if len(mod.Documents) != 1 {
		t.Fatalf("documents = %d", len(mod.Documents))
	}
	d := mod.Documents[0]
	if d.Name != "001-PRJ-api-gateway" {
		t.Errorf("name = %q", d.Name)
	}
	if d.RelPath != "PRJ-api/001-PRJ-api-gateway.md" {
		t.Errorf("rel path = %q", d.RelPath)
	}
	if d.Size != len(body) {
		t.Errorf("size = %d, want %d", d.Size, len(body))
	}
	if len(d.References) != 2 || d.References[0] != "x.md" || d.References[1] != "x.md" {
		t.Errorf("references = %v", d.References)
	}
	if d.Checksum == "" {
		t.Error("checksum should be set")
	}
}

func TestScanModule_MissingDirectory(t *testing.T) {
	s := testStore(t)
	_, err := ScanModule(s, "PRJ-design", models.CategoryDesign)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestScanModule_Empty(t *testing.T) {
	s := testStore(t)
	_ = s.Write("PRJ-testing/README.md", []byte("# Testing"))
	mod, err := ScanModule(s, "PRJ-testing", models.CategoryTesting)
	if err != nil {
		t.Fatalf("ScanModule: %v", err)
	}
	if mod.Stats != (models.ModuleStats{}) || len(mod.Documents) != 0 {
		t.Errorf("expected empty module, got %+v", mod)
	}
}
