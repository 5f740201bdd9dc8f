// Package apperr holds the error values shared across packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryError reports a catalog lookup for a category with no entry.
type CategoryError struct {
	Category string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("catalog: no entry for category %q", e.Category)
}

// Unwrap lets errors.Is match ErrCategoryNotFound.
func (e *CategoryError) Unwrap() error {
	return ErrCategoryNotFound
}
