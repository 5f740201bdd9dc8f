package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), DefaultManifest)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	meta, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta != Defaults() {
		t.Errorf("meta = %+v, want defaults", meta)
	}
}

func TestLoad_TopLevelFields(t *testing.T) {
	p := writeManifest(t, "name = \"Atlas\"\nversion = \"2.3.0\"\n")
	meta, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Name != "Atlas" || meta.Version != "2.3.0" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Author != Defaults().Author {
		t.Errorf("author should fall back to default, got %q", meta.Author)
	}
}

func TestLoad_ProjectTable(t *testing.T) {
	p := writeManifest(t, "[project]\nname = \"Atlas\"\nauthor = \"Platform Team\"\nlicense = \"Apache-2.0\"\n")
	meta, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Name != "Atlas" || meta.Author != "Platform Team" || meta.License != "Apache-2.0" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestLoad_InvalidTOMLReturnsDefaults(t *testing.T) {
	p := writeManifest(t, "name = = broken")
	meta, err := Load(p)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if meta != Defaults() {
		t.Errorf("meta = %+v, want defaults alongside the error", meta)
	}
}
