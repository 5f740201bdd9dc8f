package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/tiwaz/internal/report"
)

func checkRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"PRJ-api/001-PRJ-api-Gateway.md":        "# Gateway\n[gone](PRJ-api/missing.md)\n",
		"PRJ-api/002-PRJ-api-Cache-reserved.md": "reserved",
		"project.toml":                          "[project]\nname = \"Atlas\"\nversion = \"2.1.0\"\n",
	}
	for p, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func checkConfig(root string) *Config {
	cfg := NewDefaultConfig()
	cfg.Docs.Root = root
	cfg.Docs.Modules = []string{"api"}
	return cfg
}

func TestCheck_SynthesizesAndWritesReport(t *testing.T) {
	root := checkRoot(t)
	var out bytes.Buffer

	err := Check(context.Background(),
		WithConfig(checkConfig(root)),
		WithOutput(&out),
		WithSynthesize(true),
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if !strings.Contains(out.String(), "PRJ-api") || !strings.Contains(out.String(), "Atlas documentation") {
		t.Errorf("console output = %q", out.String())
	}

	data, err := os.ReadFile(filepath.Join(root, "PRJ-api", "002-PRJ-api-Cache-reserved.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Core Content") || !strings.Contains(string(data), "version: 2.1.0") {
		t.Errorf("placeholder not synthesized:\n%s", data)
	}

	reports, _ := os.ReadDir(filepath.Join(root, report.DefaultDir))
	if len(reports) != 1 {
		t.Fatalf("reports = %v, want exactly one", reports)
	}
}

func TestCheck_DryRunWritesNothing(t *testing.T) {
	root := checkRoot(t)
	var out bytes.Buffer

	err := Check(context.Background(),
		WithConfig(checkConfig(root)),
		WithOutput(&out),
		WithSynthesize(true),
		WithDryRun(true),
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "PRJ-api", "002-PRJ-api-Cache-reserved.md"))
	if string(data) != "reserved" {
		t.Errorf("dry run rewrote placeholder: %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, report.DefaultDir)); !os.IsNotExist(err) {
		t.Errorf("dry run created report dir: %v", err)
	}
}

func TestCheck_ScanOnlyPrintsSummary(t *testing.T) {
	root := checkRoot(t)
	var out bytes.Buffer

	err := Check(context.Background(),
		WithConfig(checkConfig(root)),
		WithOutput(&out),
		WithSynthesize(true),
		WithScanOnly(true),
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !strings.Contains(out.String(), "PRJ-api") {
		t.Errorf("console output = %q", out.String())
	}
	if strings.Contains(out.String(), "broken references") {
		t.Errorf("scan-only should not print validation results: %q", out.String())
	}
	data, _ := os.ReadFile(filepath.Join(root, "PRJ-api", "002-PRJ-api-Cache-reserved.md"))
	if string(data) != "reserved" {
		t.Errorf("scan-only rewrote placeholder: %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, report.DefaultDir)); !os.IsNotExist(err) {
		t.Errorf("scan-only created report dir: %v", err)
	}
}

func TestCheck_FillOnlySkipsReport(t *testing.T) {
	root := checkRoot(t)

	err := Check(context.Background(),
		WithConfig(checkConfig(root)),
		WithOutput(&bytes.Buffer{}),
		WithFillOnly(true),
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "PRJ-api", "002-PRJ-api-Cache-reserved.md"))
	if !strings.Contains(string(data), "## Core Content") {
		t.Errorf("fill-only did not synthesize:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(root, report.DefaultDir)); !os.IsNotExist(err) {
		t.Errorf("fill-only created report dir: %v", err)
	}
}

func TestCheck_ScanOnlyAndFillOnlyConflict(t *testing.T) {
	err := Check(context.Background(),
		WithConfig(checkConfig(t.TempDir())),
		WithOutput(&bytes.Buffer{}),
		WithScanOnly(true),
		WithFillOnly(true),
	)
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("err = %v, want mutually exclusive error", err)
	}
}

func TestCheck_MissingRoot(t *testing.T) {
	cfg := checkConfig(filepath.Join(t.TempDir(), "absent"))
	if err := Check(context.Background(), WithConfig(cfg), WithOutput(&bytes.Buffer{})); err == nil {
		t.Fatal("expected error for missing docs root")
	}
}

func TestCheck_RequiresConfig(t *testing.T) {
	if err := Check(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
