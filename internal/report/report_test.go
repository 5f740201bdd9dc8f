package report

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/storage"
)

func sampleReport() *Report {
	api := &models.Module{Name: "PRJ-api", Stats: models.ModuleStats{Total: 3, Placeholder: 1, Template: 1, Completed: 2}}
	r := &Report{
		GeneratedAt: time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC),
		Project:     project.Defaults(),
		Modules:     []*models.Module{api},
		Totals:      api.Stats,
		Synthesis:   Synthesis{Enabled: true, Succeeded: 1, Failed: 1, Failures: []Failure{{Document: "x.md", Error: "boom"}}},
		Issues: models.Issues{
			BrokenReferences: []models.BrokenReference{{Document: "/r/a.md", Reference: "gone.md"}},
			OrphanDocuments:  []string{"/r/lonely.md"},
		},
		Validated: true,
		Warnings:  []string{"module PRJ-design skipped: not found"},
	}
	return r
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC))
	if got != "doc-report-20261019-140509.md" {
		t.Errorf("FileName = %q", got)
	}
}

func TestMarkdown_ContainsSections(t *testing.T) {
	out := Markdown(sampleReport())
	for _, want := range []string{
		"| PRJ-api | 3 | 2 | 1 | 1 |",
		"- Succeeded: 1",
		"`x.md`: boom",
		"`/r/a.md` -> `gone.md`",
		"`/r/lonely.md`",
		"module PRJ-design skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestWrite_UnderReportDir(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rel, err := Write(store, "", sampleReport())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rel != "reports/doc-report-20261019-140509.md" {
		t.Errorf("rel = %q", rel)
	}
	data, err := store.Read(rel)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Documentation Documentation Report") {
		t.Errorf("unexpected report head: %q", string(data)[:40])
	}
}

func TestConsole_ListsModules(t *testing.T) {
	out := Console(sampleReport())
	for _, want := range []string{"PRJ-api", "total", "1 broken references", "warning:"} {
		if !strings.Contains(out, want) {
			t.Errorf("console missing %q\n%s", want, out)
		}
	}
}

func TestConsole_OmitsIssuesWhenNotValidated(t *testing.T) {
	r := sampleReport()
	r.Validated = false
	out := Console(r)
	if strings.Contains(out, "broken references") || strings.Contains(out, "no consistency issues") {
		t.Errorf("console should not report issues for an unvalidated run\n%s", out)
	}
	if !strings.Contains(out, "PRJ-api") {
		t.Errorf("console should still list modules\n%s", out)
	}
}
