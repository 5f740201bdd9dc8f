// Package pipeline runs one pass over the document root: scan, synthesize
// placeholders, rescan, build the reference graph, validate, and report.
// Scan-only and fill-only runs stop after their stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/graph"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/report"
	"github.com/starford/tiwaz/internal/scanner"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/synth"
	"github.com/starford/tiwaz/internal/validator"
)

// Mode selects the stages a run executes.
type Mode int

const (
	// ModeFull scans, synthesizes when enabled, validates, and writes the report.
	ModeFull Mode = iota
	// ModeScanOnly scans and tallies modules without writing anything.
	ModeScanOnly
	// ModeFillOnly scans and synthesizes placeholders, then stops.
	ModeFillOnly
)

func (m Mode) String() string {
	switch m {
	case ModeScanOnly:
		return "scan-only"
	case ModeFillOnly:
		return "fill-only"
	default:
		return "full"
	}
}

// Options configure a run.
type Options struct {
	Mode        Mode
	Store       storage.Provider
	Synthesizer *synth.Synthesizer
	Project     project.Metadata
	ProjectCode string
	Categories  []models.Category
	ReportDir   string
	Synthesize  bool
	DryRun      bool // skip synthesis writes and the report file
	Logger      *slog.Logger
	Now         func() time.Time
}

// Result is the outcome of a run.
type Result struct {
	Report     *report.Report
	ReportPath string
	Graph      graph.Graph
	Documents  []*models.Document
}

// Run executes the pipeline. Cancellation is honored between documents; files
// already rewritten stay rewritten. ModeFillOnly synthesizes regardless of
// opts.Synthesize; ModeScanOnly never does.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("pipeline: store is required")
	}
	switch opts.Mode {
	case ModeScanOnly:
		opts.Synthesize = false
	case ModeFillOnly:
		opts.Synthesize = true
	}
	if opts.Synthesize && opts.Synthesizer == nil {
		return nil, fmt.Errorf("pipeline: synthesizer is required when synthesis is enabled")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	rep := &report.Report{
		Project:   opts.Project,
		Synthesis: report.Synthesis{Enabled: opts.Synthesize},
	}

	modules, warnings, err := scanAll(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	rep.Warnings = warnings

	if opts.Synthesize {
		if err := synthesizeAll(ctx, opts, modules, &rep.Synthesis, logger); err != nil {
			return nil, err
		}
	}

	var docs []*models.Document
	for _, m := range modules {
		docs = append(docs, m.Documents...)
		rep.Totals.Add(m.Stats)
	}
	rep.Modules = modules
	rep.GeneratedAt = now()

	if opts.Mode != ModeFull {
		logger.Info("pipeline: stopped early",
			slog.String("mode", opts.Mode.String()),
			slog.Int("documents", len(docs)))
		return &Result{Report: rep, Graph: graph.Graph{}, Documents: docs}, nil
	}

	g := graph.Build(docs)
	index := make([]string, 0, len(docs))
	for _, d := range docs {
		index = append(index, d.Path)
	}
	rep.Issues = validator.Validate(g, index, opts.Store)
	rep.Validated = true
	logger.Info("validate: done",
		slog.Int("documents", len(docs)),
		slog.Int("edges", g.EdgeCount()),
		slog.Int("broken_references", len(rep.Issues.BrokenReferences)),
		slog.Int("orphan_documents", len(rep.Issues.OrphanDocuments)))

	res := &Result{Report: rep, Graph: g, Documents: docs}
	if opts.DryRun {
		return res, nil
	}
	rel, err := report.Write(opts.Store, opts.ReportDir, rep)
	if err != nil {
		return nil, err
	}
	res.ReportPath = rel
	logger.Info("report: written", slog.String("path", rel))
	return res, nil
}

func scanAll(ctx context.Context, opts Options, logger *slog.Logger) ([]*models.Module, []string, error) {
	var (
		modules  []*models.Module
		warnings []string
	)
	for _, cat := range opts.Categories {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		dir := models.ModuleDir(opts.ProjectCode, cat)
		mod, err := scanner.ScanModule(opts.Store, dir, cat)
		if errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("scan: module directory missing, skipping", slog.String("module", dir))
			warnings = append(warnings, fmt.Sprintf("module %s skipped: directory not found", dir))
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("scan: module",
			slog.String("module", dir),
			slog.Int("total", mod.Stats.Total),
			slog.Int("placeholder", mod.Stats.Placeholder),
			slog.Int("template", mod.Stats.Template))
		modules = append(modules, mod)
	}
	return modules, warnings, nil
}

// synthesizeAll rewrites every placeholder. Catalog misses are tallied and
// skipped; other failures abort the run. Modules with a rewrite are rescanned
// in place so later stages see the new content.
func synthesizeAll(ctx context.Context, opts Options, modules []*models.Module, tally *report.Synthesis, logger *slog.Logger) error {
	for i, m := range modules {
		rewritten := 0
		for _, doc := range m.Placeholders() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if opts.DryRun {
				logger.Info("synth: would rewrite", slog.String("path", doc.RelPath))
				continue
			}
			err := opts.Synthesizer.Apply(opts.Store, doc)
			switch {
			case errors.Is(err, apperr.ErrCategoryNotFound):
				tally.Failed++
				tally.Failures = append(tally.Failures, report.Failure{Document: doc.RelPath, Error: err.Error()})
				logger.Warn("synth: skipped", slog.String("path", doc.RelPath), slog.String("error", err.Error()))
			case err != nil:
				return err
			default:
				tally.Succeeded++
				rewritten++
				logger.Debug("synth: rewritten", slog.String("path", doc.RelPath))
			}
		}
		if rewritten == 0 {
			continue
		}
		fresh, err := scanner.ScanModule(opts.Store, m.Dir, m.Category)
		if err != nil {
			return fmt.Errorf("pipeline: rescan %s: %w", m.Dir, err)
		}
		modules[i] = fresh
	}
	logger.Info("synth: done", slog.Int("succeeded", tally.Succeeded), slog.Int("failed", tally.Failed))
	return nil
}
