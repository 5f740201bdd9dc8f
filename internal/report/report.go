// Package report renders run statistics as a Markdown file and a console
// summary.
package report

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/storage"
)

// DefaultDir is the report subdirectory under the document root.
const DefaultDir = "reports"

const fileTimeLayout = "20060102-150405"

// Failure is one placeholder that could not be synthesized.
type Failure struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// Synthesis tallies the placeholder rewrites of a run.
type Synthesis struct {
	Enabled   bool      `json:"enabled"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Report is everything a run produced.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Project     project.Metadata   `json:"project"`
	Modules     []*models.Module   `json:"modules"`
	Totals      models.ModuleStats `json:"totals"`
	Synthesis   Synthesis          `json:"synthesis"`
	Issues      models.Issues      `json:"issues"`
	Validated   bool               `json:"validated"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// FileName returns the timestamped report file name.
func FileName(at time.Time) string {
	return "doc-report-" + at.Format(fileTimeLayout) + models.DocumentExt
}

// Write stores the Markdown report under dir and returns its relative path.
func Write(store storage.Provider, dir string, r *Report) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	rel := path.Join(dir, FileName(r.GeneratedAt))
	if err := store.Write(rel, []byte(Markdown(r))); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return rel, nil
}

// Markdown renders r as a Markdown document.
func Markdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Documentation Report\n\n", r.Project.Name)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Version: %s\n\n", r.Project.Version)

	b.WriteString("## Modules\n\n")
	b.WriteString("| Module | Total | Completed | Placeholder | Template |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, m := range r.Modules {
		writeStatsRow(&b, m.Name, m.Stats)
	}
	writeStatsRow(&b, "**Total**", r.Totals)
	b.WriteString("\n")

	if r.Synthesis.Enabled {
		b.WriteString("## Synthesis\n\n")
		fmt.Fprintf(&b, "- Succeeded: %d\n- Failed: %d\n", r.Synthesis.Succeeded, r.Synthesis.Failed)
		for _, f := range r.Synthesis.Failures {
			fmt.Fprintf(&b, "  - `%s`: %s\n", f.Document, f.Error)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Consistency\n\n")
	fmt.Fprintf(&b, "### Broken references (%d)\n\n", len(r.Issues.BrokenReferences))
	for _, br := range r.Issues.BrokenReferences {
		fmt.Fprintf(&b, "- `%s` -> `%s`\n", br.Document, br.Reference)
	}
	fmt.Fprintf(&b, "\n### Orphan documents (%d)\n\n", len(r.Issues.OrphanDocuments))
	for _, o := range r.Issues.OrphanDocuments {
		fmt.Fprintf(&b, "- `%s`\n", o)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writeStatsRow(b *strings.Builder, name string, s models.ModuleStats) {
	fmt.Fprintf(b, "| %s | %d | %d | %d | %d |\n", name, s.Total, s.Completed, s.Placeholder, s.Template)
}

func statsCells(name string, s models.ModuleStats) []string {
	return []string{
		name,
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Completed),
		strconv.Itoa(s.Placeholder),
		strconv.Itoa(s.Template),
	}
}
