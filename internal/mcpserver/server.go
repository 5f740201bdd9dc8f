// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the documentation tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/classifier"
	"github.com/starford/tiwaz/internal/docservice"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/scanner"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/synth"
)

// ContractURI is the resource URI of the document format contract.
const ContractURI = "tiwaz://document-format"

// Server wraps the MCP server with the documentation tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *docservice.Service
	store  storage.Provider
	layout index.Layout
	synth  *synth.Synthesizer
}

// New creates a new MCP server with all tools registered.
func New(svc *docservice.Service, store storage.Provider, layout index.Layout, synthesizer *synth.Synthesizer, version string) *Server {
	s := &Server{svc: svc, store: store, layout: layout, synth: synthesizer}

	s.mcp = server.NewMCPServer(
		"Tiwaz",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_modules",
		mcp.WithDescription("List the configured documentation modules with total, placeholder, template and completed counts."),
	), s.listModules)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List indexed documents with their classification flags."),
		mcp.WithString("module", mcp.Description("Optional module directory, e.g. PRJ-api (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("classify_document",
		mcp.WithDescription("Classify Markdown text without storing it: placeholder and template flags, "+
			"required sections, and extracted references. Read the format contract via "+
			"get_format_contract or the "+ContractURI+" resource."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("File name the text would be stored under")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown text to classify")),
	), s.classifyDocument)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a document with its classification and backlinks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the documentation root (e.g. PRJ-api/001-PRJ-api-Gateway.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("validate_references",
		mcp.WithDescription("Report broken references and orphan documents across the documentation set."),
	), s.validateReferences)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all documents that reference the specified path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Referenced path")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through document content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("preview_synthesis",
		mcp.WithDescription("Render the standardized content a placeholder document would be rewritten with. Nothing is written."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the documentation root")),
	), s.previewSynthesis)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the documentation format contract: layout, required headings, markers and reference rules."),
	), s.getFormatContract)

	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Documentation Format Contract",
			mcp.WithResourceDescription("Layout, required headings, incompleteness markers and reference rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listModules(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mods, err := s.svc.Modules(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(mods)
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module := req.GetString("module", "")
	docs, err := s.svc.Documents(ctx, module)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown module: %s", module)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(docs)
}

// classification is the classify_document result shape.
type classification struct {
	IsPlaceholder       bool     `json:"is_placeholder"`
	IsTemplate          bool     `json:"is_template"`
	HasRequiredSections bool     `json:"has_required_sections"`
	Completed           bool     `json:"completed"`
	Title               string   `json:"title,omitempty"`
	References          []string `json:"references"`
}

func (s *Server) classifyDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := classifier.Classify(content, filename)
	refs := res.References
	if refs == nil {
		refs = []string{}
	}
	return jsonResult(classification{
		IsPlaceholder:       res.IsPlaceholder,
		IsTemplate:          res.IsTemplate,
		HasRequiredSections: res.HasRequiredSections,
		Completed:           !res.IsPlaceholder && !res.IsTemplate,
		Title:               res.Title,
		References:          refs,
	})
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) validateReferences(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := s.svc.Issues(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"issues": issues,
		"total":  issues.Total(),
	})
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) previewSynthesis(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, ok := s.layout.Locate(path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not a module document: %s", path)), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	doc := scanner.NewDocument(s.store.Root(), path, category, data)
	text, err := s.synth.Render(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) getFormatContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
