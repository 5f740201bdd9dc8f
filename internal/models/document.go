// Package models defines the domain types for tiwaz.
package models

// DocumentExt is the file extension of every managed document.
const DocumentExt = ".md"

// Document is one classified Markdown file inside a module directory.
type Document struct {
	Path                string   `json:"path"`
	RelPath             string   `json:"rel_path"`
	Name                string   `json:"name"`
	Category            Category `json:"category"`
	Title               string   `json:"title,omitempty"`
	IsPlaceholder       bool     `json:"is_placeholder"`
	IsTemplate          bool     `json:"is_template"`
	HasRequiredSections bool     `json:"has_required_sections"`
	Size                int      `json:"size"`
	References          []string `json:"references,omitempty"`
	Checksum            string   `json:"checksum"`
}

// Completed reports whether the document is neither a placeholder nor a template.
func (d *Document) Completed() bool {
	return !d.IsPlaceholder && !d.IsTemplate
}

// Module groups the documents found under one category directory.
type Module struct {
	Name      string      `json:"name"`
	Category  Category    `json:"category"`
	Dir       string      `json:"dir"`
	Documents []*Document `json:"documents"`
	Stats     ModuleStats `json:"stats"`
}

// ModuleStats holds the aggregate counts of a module.
//
// Placeholder and Template are raw counts and may overlap. Completed counts
// documents that are neither, so a document flagged both is subtracted once.
type ModuleStats struct {
	Total       int `json:"total"`
	Placeholder int `json:"placeholder"`
	Template    int `json:"template"`
	Completed   int `json:"completed"`
}

// Recount recomputes Stats from the current document list.
func (m *Module) Recount() {
	var s ModuleStats
	for _, d := range m.Documents {
		s.Total++
		if d.IsPlaceholder {
			s.Placeholder++
		}
		if d.IsTemplate {
			s.Template++
		}
		if d.Completed() {
			s.Completed++
		}
	}
	m.Stats = s
}

// Placeholders returns the documents flagged for synthesis.
func (m *Module) Placeholders() []*Document {
	var out []*Document
	for _, d := range m.Documents {
		if d.IsPlaceholder {
			out = append(out, d)
		}
	}
	return out
}

// Add merges other into s.
func (s *ModuleStats) Add(other ModuleStats) {
	s.Total += other.Total
	s.Placeholder += other.Placeholder
	s.Template += other.Template
	s.Completed += other.Completed
}

// BrokenReference is a link whose target does not exist under the document root.
type BrokenReference struct {
	Document  string `json:"document"`
	Reference string `json:"reference"`
}

// Issues collects the findings of a consistency validation.
type Issues struct {
	BrokenReferences      []BrokenReference `json:"broken_references"`
	OrphanDocuments       []string          `json:"orphan_documents"`
	VersionMismatches     []string          `json:"version_mismatches"`
	FormatInconsistencies []string          `json:"format_inconsistencies"`
}

// Total returns the number of findings across all kinds.
func (i *Issues) Total() int {
	return len(i.BrokenReferences) + len(i.OrphanDocuments) +
		len(i.VersionMismatches) + len(i.FormatInconsistencies)
}
