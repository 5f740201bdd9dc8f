package api

import (
	"github.com/starford/tiwaz/internal/docservice"
	"github.com/starford/tiwaz/internal/graph"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/models"
)

// ModuleListResponse wraps the configured modules.
type ModuleListResponse struct {
	Modules []docservice.ModuleSummary `json:"modules" validate:"required"`
	Totals  models.ModuleStats         `json:"totals" validate:"required"`
}

// DocumentListResponse wraps indexed document listings.
type DocumentListResponse struct {
	Documents []index.DocumentRow `json:"documents" validate:"required"`
	Total     int                 `json:"total" example:"12" validate:"required"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// BacklinksResponse lists the documents referencing a path.
type BacklinksResponse struct {
	Target    string   `json:"target" example:"PRJ-api/001-PRJ-api-Gateway.md" validate:"required"`
	Backlinks []string `json:"backlinks" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// GraphResponse wraps the reference graph.
type GraphResponse struct {
	Nodes []string     `json:"nodes" validate:"required"`
	Edges []graph.Edge `json:"edges" validate:"required"`
}

// IssuesResponse wraps the consistency findings.
type IssuesResponse struct {
	Issues models.Issues `json:"issues" validate:"required"`
	Total  int           `json:"total" example:"3" validate:"required"`
}
