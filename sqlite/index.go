package sqlite

import (
	"context"
	"strings"

	"github.com/ichoosetoaccept/raycast-docset"
)

// Compile-time interface verification.
var _ docset.IndexService = (*IndexService)(nil)
var _ docset.IndexWriter = (*IndexService)(nil)

// IndexService implements docset.IndexService using SQLite.
type IndexService struct {
	db *DB
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{db: db}
}

// CreateEntry inserts an entry into the search index. The path column
// stores the entry's resolved path, anchor included. Rows that collide on
// (name, type, path) are ignored: the unique anchor index makes duplicate
// headings on one page collapse to a single searchable row.
func (s *IndexService) CreateEntry(ctx context.Context, entry *docset.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO searchIndex(name, type, path)
		VALUES (?, ?, ?)
	`, entry.Name, string(entry.Type), entry.ResolvedPath())

	return err
}

// FindEntries retrieves entries matching the filter, ordered by name.
func (s *IndexService) FindEntries(ctx context.Context, filter docset.EntryFilter) ([]*docset.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT name, type, path FROM searchIndex WHERE 1=1")

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Type != nil {
		query.WriteString(" AND type = ?")
		args = append(args, string(*filter.Type))
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}

	query.WriteString(" ORDER BY name ASC, path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*docset.Entry
	for rows.Next() {
		var name, typ, path string
		if err := rows.Scan(&name, &typ, &path); err != nil {
			return nil, err
		}
		entries = append(entries, entryFromRow(name, typ, path))
	}

	return entries, rows.Err()
}

// CountEntries returns the total number of indexed entries.
func (s *IndexService) CountEntries(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM searchIndex").Scan(&count)
	return count, err
}

// entryFromRow rebuilds an Entry from its persisted columns, splitting the
// stored path back into document path and anchor.
func entryFromRow(name, typ, path string) *docset.Entry {
	entry := &docset.Entry{
		Name: name,
		Type: docset.EntryType(typ),
		Path: path,
	}
	if i := strings.Index(path, "#"); i >= 0 {
		entry.Path = path[:i]
		entry.Anchor = path[i+1:]
	}
	return entry
}
