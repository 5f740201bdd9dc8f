// Package graph builds the directed reference graph between documents.
package graph

import (
	"sort"

	"github.com/starford/tiwaz/internal/models"
)

// Graph maps a document path to the set of reference strings it contains.
// Reference strings are kept verbatim, not resolved.
type Graph map[string]map[string]struct{}

// Edge is one (source, reference) pair.
type Edge struct {
	Source    string `json:"source"`
	Reference string `json:"reference"`
}

// Build aggregates the reference lists of docs. Documents without references
// get no entry. Build performs no existence checks.
func Build(docs []*models.Document) Graph {
	g := make(Graph)
	for _, d := range docs {
		for _, ref := range d.References {
			g.Add(d.Path, ref)
		}
	}
	return g
}

// Add records an edge from source to ref.
func (g Graph) Add(source, ref string) {
	refs, ok := g[source]
	if !ok {
		refs = make(map[string]struct{})
		g[source] = refs
	}
	refs[ref] = struct{}{}
}

// Sources returns the paths that have outgoing edges, sorted.
func (g Graph) Sources() []string {
	out := make([]string, 0, len(g))
	for src := range g {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// References returns the sorted references of source.
func (g Graph) References(source string) []string {
	refs := g[source]
	out := make([]string, 0, len(refs))
	for r := range refs {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge sorted by source then reference.
func (g Graph) Edges() []Edge {
	var out []Edge
	for _, src := range g.Sources() {
		for _, ref := range g.References(src) {
			out = append(out, Edge{Source: src, Reference: ref})
		}
	}
	return out
}

// EdgeCount returns the number of distinct edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, refs := range g {
		n += len(refs)
	}
	return n
}
