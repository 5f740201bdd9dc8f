// Package docservice coordinates storage and the document index for the
// HTTP API and the MCP server.
package docservice

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/classifier"
	"github.com/starford/tiwaz/internal/graph"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/validator"
)

// ModuleSummary is one configured module with its indexed counts.
type ModuleSummary struct {
	Name     string             `json:"name"`
	Category models.Category    `json:"category"`
	Present  bool               `json:"present"`
	Stats    models.ModuleStats `json:"stats"`
}

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path                string          `json:"path"`
	Module              string          `json:"module"`
	Category            models.Category `json:"category"`
	Name                string          `json:"name"`
	Title               string          `json:"title"`
	IsPlaceholder       bool            `json:"is_placeholder"`
	IsTemplate          bool            `json:"is_template"`
	HasRequiredSections bool            `json:"has_required_sections"`
	Completed           bool            `json:"completed"`
	Size                int             `json:"size"`
	Checksum            string          `json:"checksum"`
	Content             string          `json:"content"`
	Frontmatter         map[string]any  `json:"frontmatter,omitempty"`
	References          []string        `json:"references"`
	Backlinks           []string        `json:"backlinks"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// GraphView is the reference graph in a serializable shape.
type GraphView struct {
	Nodes []string     `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// Service coordinates storage and index operations.
type Service struct {
	store  storage.Provider
	db     index.DocumentIndex
	layout index.Layout
}

// NewService creates a new document service.
func NewService(store storage.Provider, db index.DocumentIndex, layout index.Layout) *Service {
	return &Service{store: store, db: db, layout: layout}
}

// Modules returns every configured module in category order, with zero
// counts for modules that have no indexed documents.
func (s *Service) Modules(_ context.Context) ([]ModuleSummary, error) {
	rows, err := s.db.ModuleStats()
	if err != nil {
		return nil, err
	}
	byModule := make(map[string]models.ModuleStats, len(rows))
	for _, r := range rows {
		byModule[r.Module] = r.Stats
	}

	out := make([]ModuleSummary, 0, len(s.layout.Categories))
	for _, c := range s.layout.Categories {
		name := models.ModuleDir(s.layout.ProjectCode, c)
		out = append(out, ModuleSummary{
			Name:     name,
			Category: c,
			Present:  s.store.Exists(name),
			Stats:    byModule[name],
		})
	}
	return out, nil
}

// Documents lists the indexed documents of module, or of all modules when
// module is empty. An unconfigured module yields apperr.ErrNotFound.
func (s *Service) Documents(_ context.Context, module string) ([]index.DocumentRow, error) {
	if module != "" {
		if _, ok := s.layout.ModuleDirs()[module]; !ok {
			return nil, apperr.ErrNotFound
		}
	}
	rows, err := s.db.ListDocuments(module)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(rows), nil
}

// Document reads a document from storage, classifies it, and enriches it
// with backlinks. Paths outside the configured modules yield apperr.ErrNotFound.
func (s *Service) Document(_ context.Context, path string) (*DocumentDetail, error) {
	category, ok := s.layout.Locate(path)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}

	res := classifier.Classify(string(data), path)
	detail := &DocumentDetail{
		Path:                path,
		Module:              models.ModuleDir(s.layout.ProjectCode, category),
		Category:            category,
		Name:                classifier.Stem(path),
		Title:               res.Title,
		IsPlaceholder:       res.IsPlaceholder,
		IsTemplate:          res.IsTemplate,
		HasRequiredSections: res.HasRequiredSections,
		Completed:           !res.IsPlaceholder && !res.IsTemplate,
		Size:                len(data),
		Content:             string(data),
		Frontmatter:         res.Frontmatter,
		References:          nonNilSlice(res.References),
		Backlinks:           nonNilSlice(bl),
	}
	if row, err := s.db.GetDocument(path); err == nil {
		detail.Checksum = row.Checksum
		detail.UpdatedAt = row.UpdatedAt
	}
	return detail, nil
}

// Graph returns the reference graph built from the indexed links.
func (s *Service) Graph(ctx context.Context) (*GraphView, error) {
	g, paths, err := s.indexedGraph(ctx)
	if err != nil {
		return nil, err
	}
	return &GraphView{Nodes: paths, Edges: nonNilSlice(g.Edges())}, nil
}

// Issues validates the indexed reference graph against the document root.
func (s *Service) Issues(ctx context.Context) (models.Issues, error) {
	g, paths, err := s.indexedGraph(ctx)
	if err != nil {
		return models.Issues{}, err
	}
	return validator.Validate(g, paths, s.store), nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

// Backlinks returns all document paths whose references equal target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	bl, err := s.db.Backlinks(target)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(bl), nil
}

// indexedGraph rebuilds the graph from stored links and returns the sorted
// document paths alongside it.
func (s *Service) indexedGraph(_ context.Context) (graph.Graph, []string, error) {
	links, err := s.db.Links()
	if err != nil {
		return nil, nil, err
	}
	g := make(graph.Graph)
	for _, l := range links {
		g.Add(l.Source, l.Target)
	}

	rows, err := s.db.ListDocuments("")
	if err != nil {
		return nil, nil, err
	}
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Path
	}
	return g, paths, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
