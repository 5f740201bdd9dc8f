// Package scanner enumerates the documents of a module directory and
// classifies each one.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/classifier"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/storage"
)

// ReadmeName is the module description file, never treated as a document.
const ReadmeName = "README.md"

// ScanModule classifies every document directly inside dir (relative to the
// store root). Documents keep the provider's listing order.
//
// A missing directory yields an error matching apperr.ErrNotFound; callers
// decide whether to skip the module.
func ScanModule(store storage.Provider, dir string, category models.Category) (*models.Module, error) {
	entries, err := store.List(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scanner: module %s: %w", dir, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("scanner: list %s: %w", dir, err)
	}

	mod := &models.Module{
		Name:     path.Base(filepath.ToSlash(dir)),
		Category: category,
		Dir:      dir,
	}
	for _, e := range entries {
		if path.Base(e.Path) == ReadmeName {
			continue
		}
		data, err := store.Read(e.Path)
		if err != nil {
			return nil, fmt.Errorf("scanner: %w", err)
		}
		mod.Documents = append(mod.Documents, NewDocument(store.Root(), e.Path, category, data))
	}
	mod.Recount()
	return mod, nil
}

// NewDocument classifies data read from rel and builds its Document.
func NewDocument(root, rel string, category models.Category, data []byte) *models.Document {
	res := classifier.Classify(string(data), rel)
	return &models.Document{
		Path:                filepath.Join(root, filepath.FromSlash(rel)),
		RelPath:             rel,
		Name:                classifier.Stem(rel),
		Category:            category,
		Title:               res.Title,
		IsPlaceholder:       res.IsPlaceholder,
		IsTemplate:          res.IsTemplate,
		HasRequiredSections: res.HasRequiredSections,
		Size:                len(data),
		References:          res.References,
		Checksum:            checksum.Sum(data),
	}
}
