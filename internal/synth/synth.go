// Package synth generates standardized content for placeholder documents
// from the section catalog.
package synth

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/tiwaz/internal/catalog"
	"github.com/starford/tiwaz/internal/classifier"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/storage"
)

// Branding lines emitted under the header of every synthesized document.
const (
	BannerLine = "> **Standard Documentation** | generated from the section catalog"
	NoticeLine = "> Keep the section headings intact and edit the text below each one."
	FooterLine = "*Maintained under the documentation standard. Regenerate with `tiwaz check --synthesize`.*"
)

// DefaultOrdinal is used when a file name carries no document number.
const DefaultOrdinal = "000"

const (
	dateLayout  = "2006-01-02"
	statusValue = "published"
)

// Synthesizer renders replacement content for placeholder documents.
type Synthesizer struct {
	catalog   *catalog.Catalog
	meta      project.Metadata
	code      string
	now       func() time.Time
	ordinalRe *regexp.Regexp
	titleRe   *regexp.Regexp
}

// Option customizes a Synthesizer.
type Option func(*Synthesizer)

// WithClock replaces time.Now for the created/updated header dates.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		s.now = now
	}
}

// New creates a Synthesizer for documents named after projectCode, e.g.
// "012-PRJ-api-gateway.md" for code "PRJ".
func New(cat *catalog.Catalog, meta project.Metadata, projectCode string, opts ...Option) *Synthesizer {
	code := regexp.QuoteMeta(projectCode)
	s := &Synthesizer{
		catalog:   cat,
		meta:      meta,
		code:      projectCode,
		now:       time.Now,
		ordinalRe: regexp.MustCompile(`(\d+)-` + code),
		titleRe:   regexp.MustCompile(code + `-(?:` + categoryPattern() + `)-([^-]+)`),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply rewrites the backing file of doc with synthesized content, replacing
// it in full. A category without a catalog entry fails with
// *apperr.CategoryError before anything is written.
func (s *Synthesizer) Apply(store storage.Provider, doc *models.Document) error {
	text, err := s.Render(doc)
	if err != nil {
		return err
	}
	if err := store.Write(doc.RelPath, []byte(text)); err != nil {
		return fmt.Errorf("synth: write %s: %w", doc.RelPath, err)
	}
	return nil
}

// Render looks up the catalog entry for doc and returns its synthesized
// content without writing anything.
func (s *Synthesizer) Render(doc *models.Document) (string, error) {
	entry, err := s.catalog.Entry(doc.Category)
	if err != nil {
		return "", err
	}
	return s.Synthesize(doc, entry), nil
}

// Ordinal extracts the document number from a file name, or "000".
func (s *Synthesizer) Ordinal(filename string) string {
	if m := s.ordinalRe.FindStringSubmatch(classifier.Stem(filename)); m != nil {
		return m[1]
	}
	return DefaultOrdinal
}

// categoryPattern matches the category token of a file name. Hyphenated
// categories come first so "doc-closure" is not cut at its first hyphen.
func categoryPattern() string {
	var alts []string
	for _, c := range models.Categories() {
		if strings.Contains(string(c), "-") {
			alts = append(alts, regexp.QuoteMeta(string(c)))
		}
	}
	return strings.Join(append(alts, `[A-Za-z]+`), "|")
}

// Title extracts the human title token from a file name, or the whole stem.
func (s *Synthesizer) Title(filename string) string {
	stem := classifier.Stem(filename)
	if m := s.titleRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}

type header struct {
	File        string   `yaml:"file"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Version     string   `yaml:"version"`
	Created     string   `yaml:"created"`
	Updated     string   `yaml:"updated"`
	Status      string   `yaml:"status"`
	Tags        []string `yaml:"tags"`
}

// Synthesize renders the full replacement text for doc: header, overview,
// the catalog sections in order, and the footer.
func (s *Synthesizer) Synthesize(doc *models.Document, entry catalog.Entry) string {
	name := doc.Name + models.DocumentExt
	ordinal := s.Ordinal(name)
	title := s.Title(name)
	category := doc.Category.Title()
	today := s.now().Format(dateLayout)

	h := header{
		File:        fmt.Sprintf("%s-%s-%s-%s%s", ordinal, s.code, doc.Category, title, models.DocumentExt),
		Description: fmt.Sprintf("%s documentation: %s", category, title),
		Author:      s.meta.Author,
		Version:     s.meta.Version,
		Created:     today,
		Updated:     today,
		Status:      statusValue,
		Tags:        []string{string(doc.Category), title},
	}
	fm, err := yaml.Marshal(h)
	if err != nil {
		// header only holds strings; Marshal cannot fail.
		panic(fmt.Sprintf("synth: encode header: %v", err))
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(BannerLine + "\n")
	b.WriteString(NoticeLine + "\n\n")
	fmt.Fprintf(&b, "# %s %s - %s\n\n", ordinal, category, title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This document describes %s within the %s module of %s.\n\n", title, category, s.meta.Name)
	b.WriteString("## Core Content\n\n")
	for _, sec := range entry.Sections {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", sec.Title, sec.Body)
	}
	b.WriteString("---\n\n")
	b.WriteString(FooterLine + "\n")
	return b.String()
}
