// Package index holds the in-memory table of notes built on every run and the
// tag filter that runs over it.
package index

import (
	"fmt"
	"sort"
	"time"

	"readings/internal/logs"
	"readings/internal/notes"
	"readings/internal/scanner"
	"readings/internal/tags"
)

// Row is one note flattened with a boolean flag per known tag
type Row struct {
	notes.Note
	Flags map[string]bool
	seq   int // discovery position, breaks sort ties
}

// Index is the table of all notes discovered in a vault
type Index struct {
	Columns []string // known tag names, one flag per row each
	Rows    []*Row
	byPath  map[string]*Row
}

// Build scans dir recursively and indexes every note found
func Build(dir string, catalog *tags.Catalog) (*Index, error) {
	scan, err := scanner.ScanNotes(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return BuildFromPaths(scan.NotePaths, catalog)
}

// BuildFromPaths parses every path, in order, into an Index. Notes without a
// practice date get notes.SentinelDate.
func BuildFromPaths(paths []string, catalog *tags.Catalog) (*Index, error) {
	columns := catalog.AllTags()
	idx := &Index{
		Columns: columns,
		Rows:    make([]*Row, 0, len(paths)),
		byPath:  make(map[string]*Row, len(paths)),
	}

	for i, path := range paths {
		note, err := notes.ParseNoteFile(path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if note.LastPracticed.IsZero() {
			note.LastPracticed = notes.SentinelDate
		}

		flags := make(map[string]bool, len(columns))
		for _, tag := range columns {
			flags[tag] = note.HasTag(tag)
		}

		row := &Row{Note: note, Flags: flags, seq: i}
		idx.Rows = append(idx.Rows, row)
		idx.byPath[path] = row
	}

	logs.Logger.Printf("Indexed %d notes with %d tag columns", len(idx.Rows), len(columns))
	return idx, nil
}

// Len returns the number of rows
func (idx *Index) Len() int {
	return len(idx.Rows)
}

// Lookup returns the row backed by the file at path
func (idx *Index) Lookup(path string) (*Row, bool) {
	row, ok := idx.byPath[path]
	return row, ok
}

// SetLastPracticed updates the in-memory date of the row backed by path.
// Returns false when no row has that path.
func (idx *Index) SetLastPracticed(path string, date time.Time) bool {
	row, ok := idx.byPath[path]
	if !ok {
		return false
	}
	row.LastPracticed = date
	return true
}

// SortForDisplay orders rows by last practiced date, then name, keeping
// discovery order for ties. The slice is sorted in place and returned.
func SortForDisplay(rows []*Row) []*Row {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.LastPracticed.Equal(b.LastPracticed) {
			return a.LastPracticed.Before(b.LastPracticed)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.seq < b.seq
	})
	return rows
}
