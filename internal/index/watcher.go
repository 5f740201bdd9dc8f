package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted"; path is relative to the root.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the document root and its module
// directories and processes change events until ctx is cancelled. It calls
// cb (if non-nil) after each successful index mutation.
//
// Module directories created at runtime are added to the watch list. Rename
// events trigger a reconciliation pass against the disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, layout Layout, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return err
	}
	modules := layout.ModuleDirs()
	for dir := range modules {
		if !store.Exists(dir) {
			continue
		}
		if err := w.Add(filepath.Join(root, dir)); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	notify := func(kind, rel string) {
		if cb != nil {
			cb(kind, rel)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, layout, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if ev.Op&fsnotify.Create != 0 {
				if _, isModule := modules[rel]; isModule {
					if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
						if addErr := w.Add(ev.Name); addErr != nil {
							logger.Warn("watcher: add module dir failed",
								slog.String("module", rel),
								slog.String("error", addErr.Error()))
						} else {
							logger.Debug("watcher: watching module", slog.String("module", rel))
						}
						reconcile(db, store, layout, logger, notify)
						continue
					}
				}
			}

			category, ok := layout.Locate(rel)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := indexDocument(db, root, rel, category, data, time.Now()); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				notify(kind, rel)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteDocument(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				notify("deleted", rel)

			case ev.Op&fsnotify.Rename != 0:
				// Rename fires on the old path only; the new path arrives as a
				// Create when it stays inside a watched module.
				if delErr := db.DeleteDocument(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", rel))
					notify("deleted", rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile removes index entries whose files are gone and indexes on-disk
// documents that are missing or changed.
func reconcile(db *DB, store storage.Provider, layout Layout, logger *slog.Logger, notify func(kind, rel string)) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]struct{})
	for dir := range layout.ModuleDirs() {
		entries, err := store.List(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			category, ok := layout.Locate(e.Path)
			if !ok {
				continue
			}
			disk[e.Path] = struct{}{}
			data, readErr := store.Read(e.Path)
			if readErr != nil {
				continue
			}
			previous, known := checksums[e.Path]
			if known && previous == checksum.Sum(data) {
				continue
			}
			if idxErr := indexDocument(db, store.Root(), e.Path, category, data, e.ModTime); idxErr == nil {
				logger.Debug("reconcile: indexed", slog.String("path", e.Path))
				kind := "updated"
				if !known {
					kind = "created"
				}
				notify(kind, e.Path)
			}
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if delErr := db.DeleteDocument(p); delErr == nil {
			logger.Debug("reconcile: removed stale", slog.String("path", p))
			notify("deleted", p)
		}
	}
}
