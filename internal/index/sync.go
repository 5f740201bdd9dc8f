package index

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/scanner"
	"github.com/starford/tiwaz/internal/storage"
)

// Layout names the module directories that make up the document set.
type Layout struct {
	ProjectCode string
	Categories  []models.Category
}

// ModuleDirs returns module directory name to category.
func (l Layout) ModuleDirs() map[string]models.Category {
	out := make(map[string]models.Category, len(l.Categories))
	for _, c := range l.Categories {
		out[models.ModuleDir(l.ProjectCode, c)] = c
	}
	return out
}

// Locate returns the category of a document path, or false when rel is not
// a direct child of a configured module directory or is a module README.
func (l Layout) Locate(rel string) (models.Category, bool) {
	if path.Ext(rel) != models.DocumentExt || path.Base(rel) == scanner.ReadmeName {
		return "", false
	}
	dir := path.Dir(rel)
	if dir == "." || path.Dir(dir) != "." {
		return "", false
	}
	c, ok := l.ModuleDirs()[dir]
	return c, ok
}

// Sync scans every configured module and brings the index up to date:
//   - new/changed documents are classified and upserted
//   - documents removed from disk are deleted from the index
//
// Missing module directories are skipped.
func Sync(db *DB, store storage.Provider, layout Layout, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{})
	for dir := range layout.ModuleDirs() {
		entries, err := store.List(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("sync: module missing", slog.String("module", dir))
			continue
		}
		if err != nil {
			return err
		}
		for _, e := range entries {
			category, ok := layout.Locate(e.Path)
			if !ok {
				continue
			}
			disk[e.Path] = struct{}{}

			data, err := store.Read(e.Path)
			if err != nil {
				logger.Warn("sync: read failed", slog.String("path", e.Path), slog.String("error", err.Error()))
				continue
			}
			if !checksum.Changed(data, checksums[e.Path]) {
				continue
			}
			if err := indexDocument(db, store.Root(), e.Path, category, data, e.ModTime); err != nil {
				logger.Warn("sync: index failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: indexed", slog.String("path", e.Path))
			}
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexDocument classifies data and upserts it into the DB.
func indexDocument(db *DB, root, rel string, category models.Category, data []byte, modTime time.Time) error {
	doc := scanner.NewDocument(root, rel, category, data)
	row := DocumentRow{
		Path:                rel,
		Module:              path.Dir(rel),
		Category:            category,
		Name:                doc.Name,
		Title:               doc.Title,
		IsPlaceholder:       doc.IsPlaceholder,
		IsTemplate:          doc.IsTemplate,
		HasRequiredSections: doc.HasRequiredSections,
		Size:                doc.Size,
		Checksum:            doc.Checksum,
		UpdatedAt:           modTime,
	}
	return db.UpsertDocument(row, string(data), doc.References)
}
