// Package validator checks the reference graph for broken links and
// orphaned documents.
package validator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/tiwaz/internal/graph"
	"github.com/starford/tiwaz/internal/models"
)

// Locator answers whether a root-relative path exists. Absolute references
// bypass it and are checked on the local filesystem as written.
type Locator interface {
	Exists(path string) bool
}

// Validate resolves every edge of g against root and checks every path in
// index for incoming or outgoing references. It always returns a result.
//
// A document counts as referenced when any reference string is a suffix of
// its path. This is weaker than resolving references to canonical paths: a
// reference to "gateway.md" also matches "/docs/PRJ-api/api-gateway.md".
func Validate(g graph.Graph, index []string, root Locator) models.Issues {
	issues := models.Issues{
		BrokenReferences:      []models.BrokenReference{},
		OrphanDocuments:       []string{},
		VersionMismatches:     []string{},
		FormatInconsistencies: []string{},
	}

	for _, e := range g.Edges() {
		if !resolves(root, e.Reference) {
			issues.BrokenReferences = append(issues.BrokenReferences, models.BrokenReference{
				Document:  e.Source,
				Reference: e.Reference,
			})
		}
	}

	refs := allReferences(g)
	for _, p := range index {
		if _, ok := g[p]; ok {
			continue
		}
		if !suffixMatched(p, refs) {
			issues.OrphanDocuments = append(issues.OrphanDocuments, p)
		}
	}
	sort.Strings(issues.OrphanDocuments)
	return issues
}

func resolves(root Locator, ref string) bool {
	if filepath.IsAbs(ref) {
		_, err := os.Stat(ref)
		return err == nil
	}
	return root.Exists(ref)
}

func allReferences(g graph.Graph) []string {
	var out []string
	for _, src := range g.Sources() {
		out = append(out, g.References(src)...)
	}
	return out
}

func suffixMatched(path string, refs []string) bool {
	slashed := filepath.ToSlash(path)
	for _, r := range refs {
		if strings.HasSuffix(slashed, r) {
			return true
		}
	}
	return false
}
