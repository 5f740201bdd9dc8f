// Package catalog holds the per-category section templates used to
// synthesize placeholder documents.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Section is one titled block of synthesized content.
type Section struct {
	Title string
	Body  string
}

// Entry is the ordered section list of one category.
type Entry struct {
	Category models.Category
	Sections []Section
}

// Catalog maps categories to their entries. It is immutable once built.
type Catalog struct {
	entries map[models.Category]Entry
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML of the form
//
//	category:
//	  "Section title": |
//	    body
//
// preserving the section order of the source.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	c := &Catalog{entries: make(map[models.Category]Entry)}
	if len(doc.Content) == 0 {
		return c, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("catalog: top level must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		cat, err := models.ParseCategory(root.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("catalog: line %d: %w", root.Content[i].Line, err)
		}
		if _, dup := c.entries[cat]; dup {
			return nil, fmt.Errorf("catalog: duplicate category %q", cat)
		}
		sections, err := parseSections(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", cat, err)
		}
		c.entries[cat] = Entry{Category: cat, Sections: sections}
	}
	return c, nil
}

func parseSections(n *yaml.Node) ([]Section, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: sections must be a mapping", n.Line)
	}
	out := make([]Section, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: section %q body must be text", val.Line, key.Value)
		}
		out = append(out, Section{
			Title: key.Value,
			Body:  strings.TrimRight(val.Value, "\n"),
		})
	}
	return out, nil
}

// Entry returns the sections for cat, or a *apperr.CategoryError.
func (c *Catalog) Entry(cat models.Category) (Entry, error) {
	e, ok := c.entries[cat]
	if !ok {
		return Entry{}, &apperr.CategoryError{Category: string(cat)}
	}
	sections := make([]Section, len(e.Sections))
	copy(sections, e.Sections)
	return Entry{Category: e.Category, Sections: sections}, nil
}

// Categories lists the categories that have an entry, in canonical order.
func (c *Catalog) Categories() []models.Category {
	var out []models.Category
	for _, cat := range models.Categories() {
		if _, ok := c.entries[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}
