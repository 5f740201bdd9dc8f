package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/models"
)

// DocumentRow represents a row in the documents table. Path is relative to
// the document root.
type DocumentRow struct {
	Path                string          `json:"path"`
	Module              string          `json:"module"`
	Category            models.Category `json:"category"`
	Name                string          `json:"name"`
	Title               string          `json:"title"`
	IsPlaceholder       bool            `json:"is_placeholder"`
	IsTemplate          bool            `json:"is_template"`
	HasRequiredSections bool            `json:"has_required_sections"`
	Size                int             `json:"size"`
	Checksum            string          `json:"checksum"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Completed reports whether the row is neither a placeholder nor a template.
func (r *DocumentRow) Completed() bool {
	return !r.IsPlaceholder && !r.IsTemplate
}

// LinkRow is one stored reference.
type LinkRow struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

const documentColumns = `path, module, category, name, title, is_placeholder, is_template,
	has_required_sections, size, checksum, updated_at`

// UpsertDocument inserts or replaces a document, its FTS entry, and links
// within a transaction.
func (db *DB) UpsertDocument(r DocumentRow, body string, refs []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO documents (`+documentColumns+`, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			module                = excluded.module,
			category              = excluded.category,
			name                  = excluded.name,
			title                 = excluded.title,
			is_placeholder        = excluded.is_placeholder,
			is_template           = excluded.is_template,
			has_required_sections = excluded.has_required_sections,
			size                  = excluded.size,
			checksum              = excluded.checksum,
			updated_at            = excluded.updated_at,
			body                  = excluded.body
	`, r.Path, r.Module, string(r.Category), r.Name, r.Title, r.IsPlaceholder, r.IsTemplate,
		r.HasRequiredSections, r.Size, r.Checksum, r.UpdatedAt, body)
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	if err := ftsUpsert(tx, r.Path, r.Title, body); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, r.Path); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if len(refs) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range refs {
			if _, err := stmt.Exec(r.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteDocument removes a document, its FTS entry, and outgoing links.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (DocumentRow, error) {
	var (
		r        DocumentRow
		category string
	)
	err := s.Scan(&r.Path, &r.Module, &category, &r.Name, &r.Title, &r.IsPlaceholder,
		&r.IsTemplate, &r.HasRequiredSections, &r.Size, &r.Checksum, &r.UpdatedAt)
	r.Category = models.Category(category)
	return r, err
}

// GetDocument returns one document row or apperr.ErrNotFound.
func (db *DB) GetDocument(path string) (*DocumentRow, error) {
	row := db.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE path = ?`, path)
	r, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}
	return &r, nil
}

// ListDocuments returns the documents of module, or of every module when
// module is empty, ordered by path.
func (db *DB) ListDocuments(module string) ([]DocumentRow, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if module != "" {
		query += ` WHERE module = ?`
		args = append(args, module)
	}
	query += ` ORDER BY path`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		r, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ModuleStats aggregates counts per module, ordered by module name.
// Completed counts rows that are neither placeholder nor template.
func (db *DB) ModuleStats() ([]ModuleStatsRow, error) {
	rows, err := db.conn.Query(`
		SELECT module,
		       COUNT(*),
		       SUM(is_placeholder),
		       SUM(is_template),
		       SUM(CASE WHEN is_placeholder = 0 AND is_template = 0 THEN 1 ELSE 0 END)
		FROM documents
		GROUP BY module
		ORDER BY module
	`)
	if err != nil {
		return nil, fmt.Errorf("index: module stats: %w", err)
	}
	defer rows.Close()

	var out []ModuleStatsRow
	for rows.Next() {
		var m ModuleStatsRow
		if err := rows.Scan(&m.Module, &m.Stats.Total, &m.Stats.Placeholder, &m.Stats.Template, &m.Stats.Completed); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Links returns every stored reference ordered by source then target.
func (db *DB) Links() ([]LinkRow, error) {
	rows, err := db.conn.Query(`SELECT source, target FROM links ORDER BY source, target`)
	if err != nil {
		return nil, fmt.Errorf("index: links: %w", err)
	}
	defer rows.Close()

	var out []LinkRow
	for rows.Next() {
		var l LinkRow
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AllPaths returns every indexed document path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path to checksum for every indexed document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Backlinks returns all document paths whose references equal target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
