// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tiwaz/internal/api"
	"github.com/starford/tiwaz/internal/catalog"
	"github.com/starford/tiwaz/internal/docservice"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/mcpserver"
	"github.com/starford/tiwaz/internal/pipeline"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/report"
	"github.com/starford/tiwaz/internal/sse"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/synth"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", stdout: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger installs a JSON logger writing to w as the default logger.
func (a *application) logger(w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) layout() index.Layout {
	return index.Layout{
		ProjectCode: a.config.Docs.ProjectCode,
		Categories:  a.config.Docs.Categories(),
	}
}

// synthesizer loads the project manifest (relative paths resolve against the
// document root) and builds the synthesizer. A broken manifest falls back to
// defaults with a warning.
func (a *application) synthesizer(store storage.Provider, logger *slog.Logger) (*synth.Synthesizer, project.Metadata) {
	manifest := a.config.Project.Manifest
	if !filepath.IsAbs(manifest) {
		manifest = filepath.Join(store.Root(), manifest)
	}
	meta, err := project.Load(manifest)
	if err != nil {
		logger.Warn("project manifest unreadable, using defaults",
			slog.String("path", manifest),
			slog.String("error", err.Error()))
	}
	return synth.New(catalog.Default(), meta, a.config.Docs.ProjectCode), meta
}

func (a *application) mode() (pipeline.Mode, error) {
	switch {
	case a.scanOnly && a.fillOnly:
		return pipeline.ModeFull, fmt.Errorf("scan-only and fill-only are mutually exclusive")
	case a.scanOnly:
		return pipeline.ModeScanOnly, nil
	case a.fillOnly:
		return pipeline.ModeFillOnly, nil
	default:
		return pipeline.ModeFull, nil
	}
}

// Check runs one pass over the document root and prints the console report.
// Logs go to stderr so the report owns stdout.
func Check(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	mode, err := app.mode()
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger(os.Stderr)

	logger.Info("Configuration loaded",
		slog.String("docs_root", cfg.Docs.Root),
		slog.String("project_code", cfg.Docs.ProjectCode),
		slog.Int("modules", len(cfg.Docs.Modules)),
		slog.String("mode", mode.String()),
		slog.Bool("synthesize", cfg.Docs.Synthesize || app.synthesize),
		slog.Bool("dry_run", app.dryRun))

	store, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	s, meta := app.synthesizer(store, logger)

	res, err := pipeline.Run(ctx, pipeline.Options{
		Mode:        mode,
		Store:       store,
		Synthesizer: s,
		Project:     meta,
		ProjectCode: cfg.Docs.ProjectCode,
		Categories:  cfg.Docs.Categories(),
		ReportDir:   cfg.Docs.ReportDir,
		Synthesize:  cfg.Docs.Synthesize || app.synthesize,
		DryRun:      app.dryRun,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if _, err := fmt.Fprintln(app.stdout, report.Console(res.Report)); err != nil {
		return fmt.Errorf("check: print report: %w", err)
	}
	if res.ReportPath != "" {
		logger.Info("Report written", slog.String("path", res.ReportPath))
	}
	return nil
}

// Serve indexes the document root and runs the HTTP API with live updates.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger(os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("docs_root", cfg.Docs.Root),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Docs.Root, 0o755); err != nil {
		return fmt.Errorf("create docs root: %w", err)
	}
	store, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	layout := app.layout()
	if err := index.Sync(db, store, layout, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := docservice.NewService(store, db, layout)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := index.Watch(gCtx, db, store, layout, logger, broker.PublishDocumentEvent); err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// ServeMCP indexes the document root and serves MCP over stdio. Logs go to
// stderr; stdout carries the protocol.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger(os.Stderr)

	store, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	layout := app.layout()
	if err := index.Sync(db, store, layout, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := index.Watch(watchCtx, db, store, layout, logger, nil); err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
	}()

	s, _ := app.synthesizer(store, logger)
	srv := mcpserver.New(docservice.NewService(store, db, layout), store, layout, s, app.version)

	logger.Info("MCP server starting", slog.String("docs_root", store.Root()))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
