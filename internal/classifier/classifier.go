// Package classifier derives completion flags and outgoing references from
// the raw text of a Markdown document.
package classifier

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/tiwaz/internal/models"
)

// ReservedMarker marks a reserved, not-yet-authored document slot when it
// appears in a file name.
const ReservedMarker = "reserved"

// StalePhrase is left behind by older document generators.
const StalePhrase = "Content coming soon"

var (
	// templateMarkers are matched by plain, case-sensitive substring search.
	templateMarkers = []string{
		"[required]",
		"[optional]",
		"[TODO]",
		"[to-fill]",
		"[to-complete]",
		StalePhrase,
		ReservedMarker,
	}

	requiredHeadings = []string{
		"## Overview",
		"## Core Content",
		"### 1. Background & Goals",
	}

	inlineLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Result holds the classification of one document.
type Result struct {
	IsPlaceholder       bool
	IsTemplate          bool
	HasRequiredSections bool
	References          []string
	Title               string
	Frontmatter         map[string]interface{}
}

// TemplateMarkers returns a copy of the incompleteness markers.
func TemplateMarkers() []string {
	return append([]string(nil), templateMarkers...)
}

// RequiredHeadings returns a copy of the headings every finished document carries.
func RequiredHeadings() []string {
	return append([]string(nil), requiredHeadings...)
}

// Classify inspects text and filename. It has no side effects.
func Classify(text, filename string) Result {
	fm, body := splitFrontmatter([]byte(text))
	return Result{
		IsPlaceholder:       isPlaceholder(filename),
		IsTemplate:          containsAny(text, templateMarkers),
		HasRequiredSections: containsAll(text, requiredHeadings),
		References:          extractReferences(text),
		Title:               deriveTitle(fm, body),
		Frontmatter:         fm,
	}
}

// Stem returns the file name without directory and extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isPlaceholder(filename string) bool {
	return strings.Contains(Stem(filename), ReservedMarker)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func containsAll(text string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(text, n) {
			return false
		}
	}
	return true
}

// extractReferences returns [label](target) targets ending in the document
// extension. Labels must be non-empty; targets may contain spaces.
// Duplicates are kept in encounter order.
func extractReferences(text string) []string {
	var out []string
	for _, m := range inlineLinkRe.FindAllStringSubmatch(text, -1) {
		target := m[2]
		if strings.HasSuffix(target, models.DocumentExt) {
			out = append(out, target)
		}
	}
	return out
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the body. Missing or invalid frontmatter yields a nil map and the
// whole text as body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if t, ok := fm["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
