package index

import "github.com/starford/tiwaz/internal/models"

// DocumentIndex defines the read and write operations on the document index.
// Consumers should depend on this interface rather than the concrete *DB type.
type DocumentIndex interface {
	UpsertDocument(row DocumentRow, body string, refs []string) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	GetDocument(path string) (*DocumentRow, error)
	ListDocuments(module string) ([]DocumentRow, error)
	ModuleStats() ([]ModuleStatsRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Links() ([]LinkRow, error)
	Backlinks(target string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// ModuleStatsRow pairs a module name with its aggregate counts.
type ModuleStatsRow struct {
	Module string             `json:"module"`
	Stats  models.ModuleStats `json:"stats"`
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
