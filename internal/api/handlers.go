package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/tiwaz/internal/docservice"
	"github.com/starford/tiwaz/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// wildcardPath extracts the document path from the URL wildcard.
// Supports encoded slashes (e.g. PRJ-api%2Fgateway.md).
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListModules handles GET /api/modules.
//
//	@Summary		List configured modules with document counts
//	@Tags			modules
//	@Produce		json
//	@Success		200	{object}	ModuleListResponse
//	@Security		BearerAuth
//	@Router			/modules [get]
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	mods, err := h.svc.Modules(r.Context())
	if err != nil {
		writeError(w, "list modules", err)
		return
	}
	var totals models.ModuleStats
	for _, m := range mods {
		totals.Add(m.Stats)
	}
	writeJSON(w, http.StatusOK, ModuleListResponse{Modules: mods, Totals: totals})
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List indexed documents, optionally for one module
//	@Tags			documents
//	@Produce		json
//	@Param			module	query		string	false	"Module directory, e.g. PRJ-api"
//	@Success		200		{object}	DocumentListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	module := r.URL.Query().Get("module")
	docs, err := h.svc.Documents(r.Context(), module)
	if err != nil {
		writeError(w, "list documents", err, slog.String("module", module))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get a classified document with backlinks
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Document(r.Context(), path)
	if err != nil {
		writeError(w, "get document", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Backlinks handles GET /api/backlinks/*.
//
//	@Summary		List documents referencing a path
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Referenced path"
//	@Success		200		{object}	BacklinksResponse
//	@Security		BearerAuth
//	@Router			/backlinks/{path} [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	target := wildcardPath(r)
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	bl, err := h.svc.Backlinks(r.Context(), target)
	if err != nil {
		writeError(w, "backlinks", err, slog.String("path", target))
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Target: target, Backlinks: bl})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the reference graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Graph(r.Context())
	if err != nil {
		writeError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: g.Nodes, Edges: g.Edges})
}

// Issues handles GET /api/issues.
//
//	@Summary		Validate references across the document set
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	IssuesResponse
//	@Security		BearerAuth
//	@Router			/issues [get]
func (h *Handler) Issues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.svc.Issues(r.Context())
	if err != nil {
		writeError(w, "issues", err)
		return
	}
	writeJSON(w, http.StatusOK, IssuesResponse{Issues: issues, Total: issues.Total()})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
